package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandpit/internal/scene"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the built-in scenes",
	Long: `Shows the scenes compiled into sandctl. Files in ~/.sandpit/scenes or
./scenes with the same name take precedence when loading.`,
	RunE: runScenes,
}

func runScenes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range scene.Names() {
		s, err := scene.Load(name)
		if err != nil {
			return fmt.Errorf("scene %s: %w", name, err)
		}
		size := "config size"
		if s.Width > 0 && s.Height > 0 {
			size = fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
		terrain := ""
		if s.Terrain != nil {
			terrain = ", terrain"
		}
		fmt.Fprintf(out, "  %-10s %s, %d strokes%s\n", name, size, len(s.Strokes), terrain)
	}
	return nil
}
