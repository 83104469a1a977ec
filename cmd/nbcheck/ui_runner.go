package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nbcheck/internal/driver"
	"nbcheck/internal/ui"
)

// runWithUI runs work while a progress view consumes events. work must only
// send on events; the channel is closed once it returns.
func runWithUI(title string, files []string, events chan driver.Event, work func() error) error {
	done := make(chan error, 1)
	go func() {
		err := work()
		close(events)
		done <- err
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so work never blocks on a full channel
		for range events {
		}
	}
	err := <-done
	if err != nil {
		return err
	}
	return uiErr
}
