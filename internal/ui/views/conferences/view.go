package conferences

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	conferencedto "confetti/internal/modules/conference/dto"
	"confetti/internal/ui/theme"
)

type Port interface {
	ConferencesByYear(ctx context.Context) ([]conferencedto.YearGroup, error)
}

type LoadedMsg struct {
	Groups []conferencedto.YearGroup
	Err    error
}

// SelectedMsg is emitted when the user picks a conference.
type SelectedMsg struct {
	ConferenceID string
	Name         string
}

type conferenceItem struct {
	conf conferencedto.ConferenceOutput
}

func (i conferenceItem) Title() string { return i.conf.Name }
func (i conferenceItem) Description() string {
	desc := fmt.Sprintf("%d · %d days", i.conf.Year, len(i.conf.Days))
	if i.conf.Venue.Name != "" {
		desc += " · " + i.conf.Venue.Name
	}
	return desc
}
func (i conferenceItem) FilterValue() string { return i.conf.Name }

// yearItem is a non-selectable separator between years.
type yearItem struct {
	year int
}

func (i yearItem) Title() string       { return fmt.Sprintf("── %d ──", i.year) }
func (i yearItem) Description() string { return "" }
func (i yearItem) FilterValue() string { return "" }

type Model struct {
	port    Port
	list    list.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Conferences"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		var items []list.Item
		for _, g := range msg.Groups {
			items = append(items, yearItem{year: g.Year})
			for _, c := range g.Conferences {
				items = append(items, conferenceItem{conf: c})
			}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(items) > 1 {
			m.list.Select(1)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(conferenceItem); ok {
				conf := item.conf
				return m, func() tea.Msg { return SelectedMsg{ConferenceID: conf.ID, Name: conf.Name} }
			}
			return m, nil
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	switch {
	case m.loading:
		return theme.Centered(m.width, m.height, m.spinner.View()+" Loading conferences…")
	case m.err != nil:
		return theme.Centered(m.width, m.height, theme.Failed.Render("Could not load conferences: "+m.err.Error()))
	case len(m.list.Items()) == 0:
		return theme.Centered(m.width, m.height, theme.Muted.Render("No conferences yet. Import one with `confetti import <schedule.yaml>`."))
	}
	return m.list.View()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.port.ConferencesByYear(context.Background())
		return LoadedMsg{Groups: groups, Err: err}
	}
}
