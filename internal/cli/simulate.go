package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"legalsim-backend/internal/tui"
)

func newSimulateCmd(s *settings, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Launch the interactive simulator",
		Long: `Launch the interactive simulator.

Controls:
  up/k, down/j  Move
  enter         Select sample or upload a file
  tab           Next results tab
  c / b         Answer quiz (critical / beneficial)
  esc           Back / discard
  q             Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := tui.NewApp(
				deps.NewAPI(s.baseURL, s.apiKey),
				tui.WithContext(cmd.Context()),
				tui.WithFileLoader(deps.LoadFile),
				tui.WithTiming(deps.Tick, deps.ResetDelay),
			)
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}
