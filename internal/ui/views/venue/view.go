package venue

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	conferencedto "confetti/internal/modules/conference/dto"
	homeservice "confetti/internal/modules/home/service"
	"confetti/internal/platform/stream"
	"confetti/internal/ui/components"
	"confetti/internal/ui/theme"
)

type State = homeservice.PageState[conferencedto.ConferenceOutput]

type Page interface {
	State() stream.Observable[State]
}

type StateMsg struct {
	State State
	src   <-chan State
}

type Model struct {
	ch     <-chan State
	state  State
	width  int
	height int
}

func New(page Page) Model {
	return Model{ch: page.State().Subscribe(context.Background()), state: State{Loading: true}}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
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
		return m, m.listen()
	}
	return m, nil
}

func (m Model) View() string {
	switch {
	case m.state.Loading:
		return theme.Centered(m.width, m.height, "Loading venue…")
	case m.state.Err != nil:
		return theme.Centered(m.width, m.height, theme.Failed.Render("Could not load the venue."))
	}
	conf := m.state.Value
	v := conf.Venue
	if v.Name == "" {
		return theme.Centered(m.width, m.height, theme.Muted.Render("No venue information for "+conf.Name+"."))
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(v.Name) + "\n")
	if v.Address != "" {
		sb.WriteString(v.Address + "\n")
	}
	if v.Latitude != 0 || v.Longitude != 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%.5f, %.5f", v.Latitude, v.Longitude)) + "\n")
	}
	if v.Description != "" {
		sb.WriteString("\n" + v.Description + "\n")
	}
	if len(conf.Days) > 0 {
		days := make([]string, 0, len(conf.Days))
		for _, d := range conf.Days {
			days = append(days, d.Format("Mon 02 Jan 2006"))
		}
		sb.WriteString("\n" + theme.Header.Render("Days") + "\n" + strings.Join(days, "\n") + "\n")
	}
	w := m.width - 4
	if w < 20 {
		w = 60
	}
	return theme.Pane.Width(w).Render(sb.String())
}

func (m Model) listen() tea.Cmd {
	ch := m.ch
	return components.Listen(ch, func(st State) tea.Msg { return StateMsg{State: st, src: ch} }, nil)
}
