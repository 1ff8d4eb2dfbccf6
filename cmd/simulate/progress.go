package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	progressInfoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262"))
)

// gameDoneMsg reports how many games have finished.
type gameDoneMsg struct {
	done, total int
}

// finishedMsg stops the progress display.
type finishedMsg struct{}

// progressModel shows a spinner and a running game count.
type progressModel struct {
	spinner  spinner.Model
	done     int
	total    int
	quitting bool
}

func newProgressModel(total int) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = progressStyle
	return progressModel{spinner: s, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gameDoneMsg:
		if msg.done > m.done {
			m.done = msg.done
		}
		m.total = msg.total
		return m, nil
	case finishedMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total) * 100
	}
	return fmt.Sprintf("%s %s %s\n",
		m.spinner.View(),
		progressStyle.Render(fmt.Sprintf("%d/%d games", m.done, m.total)),
		progressInfoStyle.Render(fmt.Sprintf("(%.0f%%)", pct)))
}

// progressDisplay drives a progressModel from simulator callbacks.
type progressDisplay struct {
	program *tea.Program
	exited  chan error
}

// startProgress renders to w until stop is called. Input and signal
// handling stay with the caller.
func startProgress(w io.Writer, total int) *progressDisplay {
	p := tea.NewProgram(newProgressModel(total),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler())

	d := &progressDisplay{program: p, exited: make(chan error, 1)}
	go func() {
		_, err := p.Run()
		d.exited <- err
	}()
	return d
}

func (d *progressDisplay) update(done, total int) {
	d.program.Send(gameDoneMsg{done: done, total: total})
}

func (d *progressDisplay) stop() error {
	d.program.Send(finishedMsg{})
	return <-d.exited
}
