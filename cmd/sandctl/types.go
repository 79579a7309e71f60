package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sandpit/internal/particle"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the particle catalog",
	Long:  `Shows every particle type with its color and behavior flags.`,
	Run:   runTypes,
}

func runTypes(cmd *cobra.Command, args []string) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFLAGS\tCOLOR")
	for _, t := range particle.All() {
		c := t.Color()
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))).
			Render("██")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", uint8(t), t, flags(t), swatch)
	}
	tw.Flush()
}

func flags(t particle.Type) string {
	var out []string
	add := func(on bool, name string) {
		if on {
			out = append(out, name)
		}
	}
	add(t.IsBackground(), "background")
	add(t.IsFluid(), "fluid")
	add(t.NeverSleeps(), "never-sleeps")
	add(t.EmitsPower(), "emits")
	add(t.IsConditional(), "conditional")
	add(t.ConductsPower(), "conducts")
	add(t.ConductsOnlyUnconditional(), "unconditional-only")
	add(t.WillNotPowerEmitters(), "no-emitter-feed")
	if p, ok := t.Powered(); ok {
		out = append(out, "powered="+p.String())
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}
