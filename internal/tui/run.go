package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits. When a
// ProgramNotifier is configured it is attached before the first frame,
// so pipeline toasts and render callbacks reach the screen.
func Run(cfg Config) error {
	if cfg.Pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}

	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen())

	if cfg.Notifier != nil {
		cfg.Notifier.Attach(program)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
