package session

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	conferencedomain "confetti/internal/modules/conference/domain"
	"confetti/internal/ui/theme"
)

type Port interface {
	GetSession(ctx context.Context, conferenceID, sessionID string) (conferencedomain.Session, error)
}

type LoadedMsg struct {
	Session conferencedomain.Session
	Err     error
}

// ClosedMsg asks the parent to dismiss the detail view.
type ClosedMsg struct{}

// Model shows one session in a scrollable pane.
type Model struct {
	port    Port
	session conferencedomain.Session
	err     error
	vp      viewport.Model
	width   int
	height  int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)
	return Model{port: port, vp: vp}
}

// Open loads sessionID of conferenceID.
func (m Model) Open(conferenceID, sessionID string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.GetSession(context.Background(), conferenceID, sessionID)
		return LoadedMsg{Session: s, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height
		m.vp.SetContent(m.render())
	case LoadedMsg:
		m.session = msg.Session
		m.err = msg.Err
		m.vp.SetContent(m.render())
		m.vp.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "backspace" {
			return m, func() tea.Msg { return ClosedMsg{} }
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.vp.View()
}

func (m Model) render() string {
	if m.err != nil {
		return theme.Failed.Render("Could not load session: " + m.err.Error())
	}
	s := m.session
	if s.ID == "" {
		return "Loading…"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Title) + "\n")
	when := s.StartsAt.Format("Mon 02 Jan · 15:04") + " – " + s.EndsAt.Format("15:04")
	sb.WriteString(theme.Muted.Render(when))
	if s.Room != "" {
		sb.WriteString(theme.Muted.Render(" · " + s.Room))
	}
	sb.WriteString("\n")
	var facts []string
	for _, f := range []string{s.Type, s.Language, strings.Join(s.Tags, ", ")} {
		if f != "" {
			facts = append(facts, f)
		}
	}
	if len(facts) > 0 {
		sb.WriteString(theme.Muted.Render(strings.Join(facts, " · ")) + "\n")
	}
	if s.Description != "" {
		sb.WriteString("\n" + s.Description + "\n")
	}
	for _, sp := range s.Speakers {
		sb.WriteString("\n" + theme.Header.Render(sp.Name))
		if sp.Company != "" {
			sb.WriteString(theme.Muted.Render(" · " + sp.Company))
		}
		sb.WriteString("\n")
		if sp.Bio != "" {
			sb.WriteString(sp.Bio + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("esc to go back"))
	return sb.String()
}
