package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	interview "github.com/prepmate/interview-core/core"
)

const turnTimeout = 2 * time.Minute

var (
	interviewerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	candidateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	scoreStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

type chatLine struct {
	speaker string
	text    string
}

// replyMsg carries the orchestrator's reply back into the update loop.
type replyMsg struct {
	reply interview.Reply
	err   error
}

type model struct {
	orchestrator *interview.Orchestrator
	session      *interview.Session

	viewport  viewport.Model
	input     textinput.Model
	lines     []chatLine
	waiting   bool
	ready     bool
	width     int
	statusBar string
}

func newModel(orchestrator *interview.Orchestrator, session *interview.Session) model {
	input := textinput.New()
	input.Placeholder = "Type your answer and press enter (/reset to start over, /quit to exit)"
	input.Focus()
	input.CharLimit = 2000

	return model{
		orchestrator: orchestrator,
		session:      session,
		input:        input,
	}
}

func (m model) Init() tea.Cmd {
	// The opening turn runs immediately so the interviewer speaks first.
	return tea.Batch(textinput.Blink, m.sendTurn("hello"))
}

func (m model) sendTurn(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		reply, err := m.orchestrator.Handle(ctx, m.session, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()

			switch text {
			case "":
				return m, nil
			case "/quit":
				return m, tea.Quit
			case "/reset":
				m.session.Reset()
				m.lines = nil
				m.statusBar = ""
				m.waiting = true
				return m, m.sendTurn("hello")
			}

			m.lines = append(m.lines, chatLine{speaker: "You", text: text})
			m.refreshViewport()
			m.waiting = true
			return m, m.sendTurn(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, chatLine{speaker: "System", text: msg.err.Error()})
		} else {
			m.lines = append(m.lines, chatLine{speaker: "Interviewer", text: msg.reply.Text})
			if snapshot := msg.reply.ScoreSnapshot; snapshot != nil {
				m.statusBar = fmt.Sprintf(
					"last scored answer: communication %d | technical %d | behavioral %d | structure %d",
					snapshot.Communication, snapshot.Technical, snapshot.Behavioral, snapshot.Structure)
			}
		}
		m.refreshViewport()
		return m, nil
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for _, line := range m.lines {
		style := interviewerStyle
		if line.speaker == "You" {
			style = candidateStyle
		}
		b.WriteString(style.Render(line.speaker+":") + "\n")
		b.WriteString(wordwrap.String(line.text, width) + "\n\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "starting interview..."
	}

	status := helpStyle.Render("enter to send | /reset restart | /quit or esc to exit")
	if m.waiting {
		status = helpStyle.Render("thinking...")
	}
	if m.statusBar != "" {
		status += "\n" + scoreStyle.Render(m.statusBar)
	}

	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), m.input.View(), status)
}
