// ABOUTME: Progress display lifecycle
// ABOUTME: Runs the bubbletea program in the background and feeds it item updates
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Progress manages a running progress display
type Progress struct {
	program  *tea.Program
	quitChan chan struct{}
	done     chan error
}

// NewProgress creates a progress display for the named items
func NewProgress(title string, names []string, opts ...tea.ProgramOption) *Progress {
	quit := make(chan struct{}, 1)
	return &Progress{
		program:  tea.NewProgram(NewModel(title, names, quit), opts...),
		quitChan: quit,
		done:     make(chan error, 1),
	}
}

// Start runs the program in the background
func (p *Progress) Start() {
	go func() {
		_, err := p.program.Run()
		p.done <- err
	}()
}

// Started marks item i as running
func (p *Progress) Started(i int) {
	p.program.Send(StartedMsg{Index: i})
}

// Finished records the outcome of item i
func (p *Progress) Finished(i int, err error) {
	p.program.Send(FinishedMsg{Index: i, Err: err})
}

// Skipped marks item i as skipped for reason
func (p *Progress) Skipped(i int, reason string) {
	p.program.Send(FinishedMsg{Index: i, Skip: reason})
}

// Stop renders the final summary and waits for the program to exit
func (p *Progress) Stop() error {
	p.program.Send(doneMsg{})
	return <-p.done
}

// QuitChan returns the channel that signals when the user cancels
func (p *Progress) QuitChan() <-chan struct{} {
	return p.quitChan
}
