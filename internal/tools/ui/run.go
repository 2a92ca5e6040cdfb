package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type actionMsg struct {
	details []string
	err     error
}

type model struct {
	title   string
	timeout time.Duration
	details []string
	err     error
	done    bool
	action  func(context.Context) ([]string, error)
}

func (m model) Init() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	return func() tea.Msg {
		defer cancel()
		details, err := m.action(ctx)
		return actionMsg{details: details, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case actionMsg:
		m.details = msg.details
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	switch {
	case !m.done:
		b.WriteString(mutedStyle.Render("Running..."))
		b.WriteString("\n")
		return b.String()
	case m.err != nil:
		fmt.Fprintf(&b, "%s: %v\n", failStyle.Render("FAILED"), m.err)
	default:
		b.WriteString(okStyle.Render("OK"))
		b.WriteString("\n")
	}
	for _, d := range m.details {
		b.WriteString("- " + d + "\n")
	}
	return b.String()
}

// Run shows a status view while action runs, then its result.
func Run(title string, timeout time.Duration, action func(context.Context) ([]string, error)) ([]string, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	m := model{title: title, timeout: timeout, action: action}
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	res := final.(model)
	return res.details, res.err
}
