package watchtui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"swarmview/internal/viewer"
)

// Run connects to the stream at url and drives the watch view until the
// user quits. The connection retries in the background for as long as the
// view is open.
func Run(url string) error {
	state := viewer.NewSessionState()
	client := viewer.NewClient(url, state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go func() { _ = client.Run(ctx) }()

	p := tea.NewProgram(NewModel(state, client), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	cancel()
	return err
}
