package speakers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	conferencedomain "confetti/internal/modules/conference/domain"
	homeservice "confetti/internal/modules/home/service"
	"confetti/internal/platform/stream"
	"confetti/internal/ui/components"
	"confetti/internal/ui/theme"
)

type State = homeservice.PageState[[]conferencedomain.Speaker]

type Page interface {
	State() stream.Observable[State]
}

type StateMsg struct {
	State State
	src   <-chan State
}

type speakerItem struct {
	sp conferencedomain.Speaker
}

func (i speakerItem) Title() string { return i.sp.Name }
func (i speakerItem) Description() string {
	if i.sp.Company == "" {
		return i.sp.Bio
	}
	return fmt.Sprintf("%s · %s", i.sp.Company, i.sp.Bio)
}
func (i speakerItem) FilterValue() string { return i.sp.Name + " " + i.sp.Company }

type Model struct {
	ch     <-chan State
	state  State
	list   list.Model
	width  int
	height int
}

func New(page Page) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Speakers"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	return Model{ch: page.State().Subscribe(context.Background()), state: State{Loading: true}, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	case StateMsg:
		if msg.src != m.ch {
			return m, nil
		}
		m.state = msg.State
		items := make([]list.Item, 0, len(msg.State.Value))
		for _, sp := range msg.State.Value {
			items = append(items, speakerItem{sp: sp})
		}
		return m, tea.Batch(m.list.SetItems(items), m.listen())
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch {
	case m.state.Loading:
		return theme.Centered(m.width, m.height, "Loading speakers…")
	case m.state.Err != nil:
		return theme.Centered(m.width, m.height, theme.Failed.Render("Could not load speakers."))
	}
	return m.list.View()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) listen() tea.Cmd {
	ch := m.ch
	return components.Listen(ch, func(st State) tea.Msg { return StateMsg{State: st, src: ch} }, nil)
}
