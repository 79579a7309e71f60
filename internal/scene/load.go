package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scenes/*.yaml
var embedded embed.FS

// Load finds a scene by name or path.
// Search order: explicit .yaml path -> ~/.sandpit/scenes/<name>.yaml ->
// ./scenes/<name>.yaml -> embedded scenes.
func Load(name string) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name is empty: %w", fs.ErrNotExist)
	}

	if strings.HasSuffix(name, ".yaml") || strings.ContainsRune(name, filepath.Separator) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read scene %s: %w", name, err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", name, err)
		}
		return s, nil
	}

	file := name + ".yaml"
	if p := userScenePath(file); p != "" {
		if s, ok := tryFile(p); ok {
			return s, nil
		}
	}
	if s, ok := tryFile(filepath.Join("scenes", file)); ok {
		return s, nil
	}

	data, err := embedded.ReadFile("scenes/" + file)
	if err != nil {
		return nil, fmt.Errorf("unknown scene %q: %w", name, fs.ErrNotExist)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("embedded scene %s: %w", name, err)
	}
	return s, nil
}

// tryFile reads an optional scene file. Missing or malformed files fall
// through to the next location.
func tryFile(path string) (*Scene, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	s, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return s, true
}

// Names lists the embedded scenes in sorted order.
func Names() []string {
	entries, err := embedded.ReadDir("scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func userScenePath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sandpit", "scenes", filename)
}
