package bookmarks

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	bookmarksdomain "confetti/internal/modules/bookmarks/domain"
	conferencedomain "confetti/internal/modules/conference/domain"
	"confetti/internal/platform/stream"
	"confetti/internal/ui/components"
	"confetti/internal/ui/theme"
)

// Component is what the view needs from the bookmarks component.
type Component interface {
	UiState() stream.Observable[bookmarksdomain.UiState]
	IsLoggedIn() bool
	RemoveBookmark(sessionID string)
	OnSessionClicked(sessionID string)
	OnSignInClicked()
}

type StateMsg struct {
	State bookmarksdomain.UiState
	src   <-chan bookmarksdomain.UiState
}

type row struct {
	header  string
	session conferencedomain.Session
}

type Model struct {
	comp    Component
	ch      <-chan bookmarksdomain.UiState
	state   bookmarksdomain.UiState
	past    bool
	cursor  int
	rows    []row
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
		ch:      comp.UiState().Subscribe(context.Background()),
		state:   bookmarksdomain.Loading{},
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
		m.rebuild()
		return m, m.listen()

	case spinner.TickMsg:
		if _, loading := m.state.(bookmarksdomain.Loading); loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "p":
			m.past = !m.past
			m.cursor = 0
			m.rebuild()
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if s, ok := m.selected(); ok {
				m.comp.OnSessionClicked(s.ID)
			}
		case "x":
			if s, ok := m.selected(); ok {
				m.comp.RemoveBookmark(s.ID)
			}
		case "i":
			if !m.comp.IsLoggedIn() {
				m.comp.OnSignInClicked()
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state.(type) {
	case bookmarksdomain.Loading:
		return theme.Centered(m.width, m.height, m.spinner.View()+" Loading bookmarks…")
	case bookmarksdomain.Success:
		return m.renderSuccess()
	default:
		return theme.Centered(m.width, m.height, theme.Failed.Render("Something went wrong loading your bookmarks."))
	}
}

func (m Model) renderSuccess() string {
	var sb strings.Builder
	if !m.comp.IsLoggedIn() {
		sb.WriteString(theme.Hot.Render("Sign in to keep your bookmarks across devices · press i") + "\n\n")
	}
	upcoming, past := theme.Hot.Render(" Upcoming "), theme.Muted.Render(" Past ")
	if m.past {
		upcoming, past = theme.Muted.Render(" Upcoming "), theme.Hot.Render(" Past ")
	}
	sb.WriteString(upcoming + theme.Muted.Render("│") + past + theme.Muted.Render("  ←/→ switch · enter details · x remove") + "\n\n")

	if len(m.rows) == 0 {
		if m.past {
			sb.WriteString(theme.Muted.Render("No past bookmarks."))
		} else {
			sb.WriteString(theme.Muted.Render("No upcoming bookmarks. Press b on a session in the Sessions tab."))
		}
		return sb.String()
	}

	idx := 0
	for _, r := range m.rows {
		if r.header != "" {
			sb.WriteString(theme.Header.Render(r.header) + "\n")
			continue
		}
		title := r.session.Title
		if m.past {
			title = theme.Done.Render(title)
		}
		prefix := "  "
		if idx == m.cursor {
			prefix = theme.Hot.Render("› ")
		}
		line := prefix + title
		if r.session.Room != "" {
			line += theme.Muted.Render("  " + r.session.Room)
		}
		if names := r.session.SpeakerNames(); len(names) > 0 {
			line += theme.Muted.Render("  " + strings.Join(names, ", "))
		}
		sb.WriteString(line + "\n")
		idx++
	}
	return sb.String()
}

func (m *Model) rebuild() {
	m.rows = nil
	st, ok := m.state.(bookmarksdomain.Success)
	if !ok {
		return
	}
	sessions := st.UpcomingSessions
	if m.past {
		sessions = st.PastSessions
	}
	for start, list := range sessions.All() {
		m.rows = append(m.rows, row{header: start.Format("Mon 02 Jan · 15:04")})
		for _, s := range list {
			m.rows = append(m.rows, row{session: s})
		}
	}
	if n := m.count(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) count() int {
	n := 0
	for _, r := range m.rows {
		if r.header == "" {
			n++
		}
	}
	return n
}

func (m *Model) move(delta int) {
	n := m.count()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m Model) selected() (conferencedomain.Session, bool) {
	idx := 0
	for _, r := range m.rows {
		if r.header != "" {
			continue
		}
		if idx == m.cursor {
			return r.session, true
		}
		idx++
	}
	return conferencedomain.Session{}, false
}

func (m Model) listen() tea.Cmd {
	ch := m.ch
	return components.Listen(ch, func(st bookmarksdomain.UiState) tea.Msg {
		return StateMsg{State: st, src: ch}
	}, nil)
}
