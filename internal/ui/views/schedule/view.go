package schedule

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	conferencedomain "confetti/internal/modules/conference/domain"
	scheduledomain "confetti/internal/modules/schedule/domain"
	"confetti/internal/platform/stream"
	"confetti/internal/ui/components"
	"confetti/internal/ui/theme"
)

type Component interface {
	State() stream.Observable[scheduledomain.State]
	ToggleBookmark(sessionID string)
	OnSessionClicked(sessionID string)
}

type StateMsg struct {
	State scheduledomain.State
	src   <-chan scheduledomain.State
}

type Model struct {
	comp    Component
	ch      <-chan scheduledomain.State
	state   scheduledomain.State
	day     int
	cursor  int
	spinner spinner.Model
	width   int
	height  int
}

func New(comp Component) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		comp:    comp,
		ch:      comp.State().Subscribe(context.Background()),
		state:   scheduledomain.Loading{},
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case StateMsg:
		if msg.src != m.ch {
			return m, nil
		}
		m.state = msg.State
		if days := m.days(); m.day >= len(days) {
			m.day = 0
		}
		return m, m.listen()

	case spinner.TickMsg:
		if _, loading := m.state.(scheduledomain.Loading); loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.day > 0 {
				m.day--
				m.cursor = 0
			}
		case "right", "l":
			if m.day < len(m.days())-1 {
				m.day++
				m.cursor = 0
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions())-1 {
				m.cursor++
			}
		case "b":
			if s, ok := m.selected(); ok {
				m.comp.ToggleBookmark(s.ID)
			}
		case "enter":
			if s, ok := m.selected(); ok {
				m.comp.OnSessionClicked(s.ID)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch st := m.state.(type) {
	case scheduledomain.Loading:
		return theme.Centered(m.width, m.height, m.spinner.View()+" Loading sessions…")
	case scheduledomain.Success:
		return m.render(st)
	default:
		return theme.Centered(m.width, m.height, theme.Failed.Render("Could not load sessions."))
	}
}

func (m Model) render(st scheduledomain.Success) string {
	days := st.SessionsByStartTime
	if len(days) == 0 {
		return theme.Centered(m.width, m.height, theme.Muted.Render("This conference has no sessions."))
	}
	var sb strings.Builder
	for i, d := range days {
		label := " " + d.Date.Format("Mon 02 Jan") + " "
		if i == m.day {
			sb.WriteString(theme.Hot.Render(label))
		} else {
			sb.WriteString(theme.Muted.Render(label))
		}
	}
	sb.WriteString(theme.Muted.Render("   ←/→ day · b bookmark · enter details") + "\n\n")

	idx := 0
	for _, slot := range days[m.day].Slots {
		sb.WriteString(theme.Header.Render(slot.StartsAt.Format("15:04")) + "\n")
		for _, s := range slot.Sessions {
			prefix := "  "
			if idx == m.cursor {
				prefix = theme.Hot.Render("› ")
			}
			mark := "  "
			if st.Bookmarks.Has(s.ID) {
				mark = theme.Star.Render("★ ")
			}
			line := prefix + mark + s.Title
			if s.Room != "" {
				line += theme.Muted.Render("  " + s.Room)
			}
			sb.WriteString(line + "\n")
			idx++
		}
	}
	return sb.String()
}

func (m Model) days() []conferencedomain.Day {
	if st, ok := m.state.(scheduledomain.Success); ok {
		return st.SessionsByStartTime
	}
	return nil
}

func (m Model) sessions() []conferencedomain.Session {
	days := m.days()
	if m.day >= len(days) {
		return nil
	}
	return conferencedomain.Flatten(days[m.day : m.day+1])
}

func (m Model) selected() (conferencedomain.Session, bool) {
	sessions := m.sessions()
	if m.cursor < 0 || m.cursor >= len(sessions) {
		return conferencedomain.Session{}, false
	}
	return sessions[m.cursor], true
}

func (m Model) listen() tea.Cmd {
	ch := m.ch
	return components.Listen(ch, func(st scheduledomain.State) tea.Msg {
		return StateMsg{State: st, src: ch}
	}, nil)
}
