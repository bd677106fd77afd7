package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agenthooks/internal/config"
	"agenthooks/internal/hooks"
	"agenthooks/internal/ui"
)

// hookState is one row of `hooks list`.
type hookState struct {
	Name       string
	Events     []string
	Registered bool
	Disabled   bool
}

// hookStates merges the known hooks with the project registry and the
// disabled-hooks file.
func hookStates(dir string) ([]hookState, error) {
	cfg, _, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}
	disabled := config.LoadDisabledHooks(dir, "")

	included := map[string]bool{}
	for _, ev := range cfg.Events() {
		for _, e := range *ev.Entries {
			if e.Included() {
				included[e.Name] = true
			}
		}
	}

	var out []hookState
	for _, name := range hooks.Names() {
		out = append(out, hookState{
			Name:       name,
			Events:     cfg.EventsFor(name),
			Registered: included[name],
			Disabled:   disabled.Has(name),
		})
	}
	return out, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List hooks with their events and state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}
			states, err := hookStates(dir)
			if err != nil {
				return err
			}
			p := ui.NewPalette(os.Getenv("NO_COLOR") != "")
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "HOOK\tEVENTS\tSTATE")
			for _, s := range states {
				events := strings.Join(s.Events, ",")
				if events == "" {
					events = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, events, stateLabel(p, s))
			}
			return w.Flush()
		},
	}
}

func stateLabel(p *ui.Palette, s hookState) string {
	switch {
	case s.Disabled:
		return p.Red("disabled")
	case !s.Registered:
		return p.Yellow("unregistered")
	}
	return p.Green("enabled")
}
