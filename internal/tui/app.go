package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

// repaintMsg asks for a redraw after session state changed mid-batch.
type repaintMsg struct{}

// Run starts the console application.
func Run(session *fleetconsole.Session) error {
	m := NewModel(session)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Sequential batches mutate per-device statuses from inside a command;
	// push a repaint so each device's row updates as the batch walks on.
	session.SetOnChange(func() {
		p.Send(repaintMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running console: %v\n", err)
		return err
	}

	return nil
}
