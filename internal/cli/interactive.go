package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"agenthooks/internal/config"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// toggleModel lists hooks and flips their disabled state. Nothing is written
// until the user saves.
type toggleModel struct {
	states []hookState
	cursor int
	dirty  bool
	saved  bool
}

func newToggleModel(states []hookState) toggleModel {
	return toggleModel{states: states}
}

func (m toggleModel) Init() tea.Cmd {
	return nil
}

func (m toggleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.states)-1 {
			m.cursor++
		}
	case " ", "enter", "t":
		if len(m.states) > 0 {
			m.states[m.cursor].Disabled = !m.states[m.cursor].Disabled
			m.dirty = true
		}
	case "s":
		m.saved = true
		return m, tea.Quit
	}
	return m, nil
}

func (m toggleModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Hooks") + "\n\n")
	for i, s := range m.states {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		status := "[on ]"
		if s.Disabled {
			status = offStyle.Render("[off]")
		}
		events := strings.Join(s.Events, ",")
		if events == "" {
			events = "unregistered"
		}
		fmt.Fprintf(&b, "%s%s %s (%s)\n", pointer, status, s.Name, events)
	}
	help := "↑/↓ move  space toggle  s save  q quit"
	if m.dirty {
		help += "  (unsaved changes)"
	}
	b.WriteString("\n" + helpStyle.Render(help) + "\n")
	return b.String()
}

// applyStates writes every state to the disabled-hooks file and returns the
// names that changed.
func applyStates(dir string, states []hookState) ([]string, error) {
	var changed []string
	for _, s := range states {
		ok, err := config.SetHookDisabled(dir, s.Name, s.Disabled)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, s.Name)
		}
	}
	return changed, nil
}

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Toggle disabled hooks in a terminal UI",
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
			final, err := tea.NewProgram(newToggleModel(states),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout())).Run()
			if err != nil {
				return err
			}
			m := final.(toggleModel)
			if !m.saved {
				return nil
			}
			changed, err := applyStates(dir, m.states)
			if err != nil {
				return err
			}
			if len(changed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %s\n", config.DisabledHooksFile, strings.Join(changed, ", "))
			return nil
		},
	}
}
