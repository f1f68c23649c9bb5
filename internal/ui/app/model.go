package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "confetti/internal/modules/auth/dto"
	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
	homedomain "confetti/internal/modules/home/domain"
	homeservice "confetti/internal/modules/home/service"
	"confetti/internal/ui/components"
	"confetti/internal/ui/theme"
	bookmarksview "confetti/internal/ui/views/bookmarks"
	conferencesview "confetti/internal/ui/views/conferences"
	scheduleview "confetti/internal/ui/views/schedule"
	sessionview "confetti/internal/ui/views/session"
	speakersview "confetti/internal/ui/views/speakers"
	venueview "confetti/internal/ui/views/venue"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type conferencePort interface {
	ConferencesByYear(ctx context.Context) ([]conferencedto.YearGroup, error)
	GetSession(ctx context.Context, conferenceID, sessionID string) (conferencedomain.Session, error)
}

type authPort interface {
	SignIn(ctx context.Context, name, email string) (authdto.UserOutput, error)
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) (authdto.UserOutput, bool, error)
}

// Navigator carries the callbacks that home children use to leave their tab.
type Navigator struct {
	OnSessionSelected  func(sessionID string)
	OnSignIn           func()
	OnSwitchConference func()
}

// HomeOpener builds the home component of a conference for the current user.
type HomeOpener func(ctx context.Context, conferenceID string, nav Navigator) (*homeservice.Component, error)

// ─── async messages ──────────────────────────────────────────────────────────

type userLoadedMsg struct {
	user     authdto.UserOutput
	signedIn bool
	err      error
}

type homeOpenedMsg struct {
	home *homeservice.Component
	name string
	err  error
}

type entryMsg struct {
	entry homedomain.Entry
	src   <-chan homedomain.Entry
}

type navMsg struct{ inner tea.Msg }

type openSessionMsg struct{ sessionID string }

type signInRequestedMsg struct{}

type switchConferenceMsg struct{}

type signedInMsg struct {
	user authdto.UserOutput
	err  error
}

type signedOutMsg struct{ err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Enter    key.Binding
	Bookmark key.Binding
	Switch   key.Binding
	SignIn   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle bookmark")),
		Switch:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "switch conference")),
		SignIn:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "sign in")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Bookmark},
		{k.Switch, k.SignIn},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It shows the conference picker until a
// conference is chosen, then the home screen of that conference. Tab state
// lives in the home component; this model only renders its active child.
type Model struct {
	conferences conferencePort
	auth        authPort
	openHome    HomeOpener
	nav         chan tea.Msg

	picker     conferencesview.Model
	detail     sessionview.Model
	showDetail bool

	home           *homeservice.Component
	homeCh         <-chan homedomain.Entry
	entry          homedomain.Entry
	conferenceID   string
	conferenceName string
	scheduleView   scheduleview.Model
	bookmarksView  bookmarksview.Model
	speakersView   speakersview.Model
	venueView      venueview.Model

	user     authdto.UserOutput
	signedIn bool
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(conferences conferencePort, auth authPort, openHome HomeOpener, initialConference string) Model {
	return Model{
		conferences:  conferences,
		auth:         auth,
		openHome:     openHome,
		nav:          make(chan tea.Msg, 8),
		picker:       conferencesview.New(conferences),
		detail:       sessionview.New(conferences),
		conferenceID: initialConference,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadUserCmd(), m.listenNav()}
	if m.conferenceID != "" {
		cmds = append(cmds, m.openHomeCmd(m.conferenceID, ""))
	} else {
		cmds = append(cmds, m.picker.Init())
	}
	return tea.Batch(cmds...)
}

// Close releases the home component, if any.
func (m Model) Close() {
	if m.home != nil {
		m.home.Close()
	}
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case navMsg:
		next, cmd := m.Update(msg.inner)
		return next, tea.Batch(cmd, next.(Model).listenNav())

	case userLoadedMsg:
		if msg.err != nil {
			m.status = "user check: " + msg.err.Error()
		}
		m.user, m.signedIn = msg.user, msg.signedIn
		return m, nil

	case conferencesview.SelectedMsg:
		return m, m.openHomeCmd(msg.ConferenceID, msg.Name)

	case homeOpenedMsg:
		if msg.err != nil {
			m.status = "open conference: " + msg.err.Error()
			if m.home == nil {
				m.conferenceID = ""
				return m, m.picker.Init()
			}
			return m, nil
		}
		m.Close()
		m.home = msg.home
		m.conferenceID = msg.home.Conference()
		if msg.name != "" {
			m.conferenceName = msg.name
		}
		m.homeCh = m.home.Stack().Subscribe(context.Background())
		m.status = "opened " + m.title()
		return m, m.listenHome()

	case entryMsg:
		if msg.src != m.homeCh {
			return m, nil
		}
		m.entry = msg.entry
		return m, tea.Batch(m.mountEntry(), m.listenHome())

	case openSessionMsg:
		m.showDetail = true
		return m, m.detail.Open(m.conferenceID, msg.sessionID)

	case sessionview.ClosedMsg:
		m.showDetail = false
		return m, nil

	case sessionview.LoadedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case signInRequestedMsg:
		return m, m.palette.OpenWith("auth:signin ")

	case switchConferenceMsg:
		m.Close()
		m.home, m.homeCh = nil, nil
		m.entry = homedomain.Entry{}
		m.conferenceID, m.conferenceName = "", ""
		m.picker = conferencesview.New(m.conferences)
		m.propagateSize()
		return m, m.picker.Init()

	case signedInMsg:
		if msg.err != nil {
			m.status = "sign in failed: " + msg.err.Error()
			return m, nil
		}
		m.user, m.signedIn = msg.user, true
		m.status = "signed in as " + msg.user.DisplayName
		return m, m.reopenHome()

	case signedOutMsg:
		if msg.err != nil {
			m.status = "sign out failed: " + msg.err.Error()
			return m, nil
		}
		m.user, m.signedIn = authdto.UserOutput{}, false
		m.status = "signed out"
		return m, m.reopenHome()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.showDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		if m.childFiltering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.Close()
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
		if m.home != nil {
			switch msg.String() {
			case "tab":
				m.home.OnTabClicked(m.shiftTab(1))
				return m, nil
			case "shift+tab":
				m.home.OnTabClicked(m.shiftTab(-1))
				return m, nil
			case "1", "2", "3", "4":
				m.home.OnTabClicked(homedomain.Tabs[msg.String()[0]-'1'])
				return m, nil
			case "c":
				m.home.OnSwitchConferenceClicked()
				return m, nil
			}
		}
	}

	return m.updateChild(msg)
}

func (m Model) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.home == nil {
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	switch m.entry.Tab {
	case homedomain.TabSessions:
		m.scheduleView, cmd = m.scheduleView.Update(msg)
	case homedomain.TabSpeakers:
		m.speakersView, cmd = m.speakersView.Update(msg)
	case homedomain.TabBookmarks:
		m.bookmarksView, cmd = m.bookmarksView.Update(msg)
	case homedomain.TabVenue:
		m.venueView, cmd = m.venueView.Update(msg)
	}
	return m, cmd
}

// mountEntry builds the view for the child the home component just opened.
func (m *Model) mountEntry() tea.Cmd {
	var cmd tea.Cmd
	switch child := m.entry.Child.(type) {
	case scheduleview.Component:
		m.scheduleView = scheduleview.New(child)
		cmd = m.scheduleView.Init()
	case bookmarksview.Component:
		m.bookmarksView = bookmarksview.New(child)
		cmd = m.bookmarksView.Init()
	case speakersview.Page:
		m.speakersView = speakersview.New(child)
		cmd = m.speakersView.Init()
	case venueview.Page:
		m.venueView = venueview.New(child)
		cmd = m.venueView.Init()
	default:
		m.status = fmt.Sprintf("no view for %s tab", m.entry.Tab)
	}
	m.propagateSize()
	return cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.showDetail:
		content = m.detail.View()
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	if m.home == nil {
		return m.picker.View()
	}
	switch m.entry.Tab {
	case homedomain.TabSessions:
		return m.scheduleView.View()
	case homedomain.TabSpeakers:
		return m.speakersView.View()
	case homedomain.TabBookmarks:
		return m.bookmarksView.View()
	case homedomain.TabVenue:
		return m.venueView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	bar := "confetti"
	if m.home != nil {
		parts := make([]string, len(homedomain.Tabs))
		for i, tab := range homedomain.Tabs {
			label := fmt.Sprintf(" %d %s ", i+1, tab)
			if tab == m.entry.Tab {
				parts[i] = theme.Hot.Render(label)
			} else {
				parts[i] = theme.Muted.Render(label)
			}
		}
		bar += "  " + theme.Title.Render(m.title()) + "  " + strings.Join(parts, theme.Muted.Render(" │ "))
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.signedIn {
		left = theme.Hot.Render("● "+m.user.DisplayName) + "  " + left
	}
	hints := "?:help  :::palette  q:quit"
	if m.home != nil {
		hints = "?:help  tab:switch  c:conference  :::palette  q:quit"
	}
	right := theme.Muted.Render(hints)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "auth:signin":
		if len(parts) < 2 {
			m.status = "usage: auth:signin <name> [email]"
			return m, nil
		}
		name, email := strings.Join(parts[1:], " "), ""
		if last := parts[len(parts)-1]; len(parts) > 2 && strings.Contains(last, "@") {
			name, email = strings.Join(parts[1:len(parts)-1], " "), last
		}
		return m, m.signInCmd(name, email)

	case "auth:signout":
		return m, m.signOutCmd()

	case "auth:whoami":
		if m.signedIn {
			m.status = fmt.Sprintf("signed in as %s (%s)", m.user.DisplayName, m.user.UID)
		} else {
			m.status = "not signed in"
		}
		return m, nil

	case "conference:switch":
		return m, func() tea.Msg { return switchConferenceMsg{} }

	case "tab:sessions", "tab:speakers", "tab:bookmarks", "tab:venue":
		if m.home == nil {
			m.status = "pick a conference first"
			return m, nil
		}
		for _, tab := range homedomain.Tabs {
			if "tab:"+strings.ToLower(tab.String()) == parts[0] {
				m.home.OnTabClicked(tab)
			}
		}
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) title() string {
	if m.conferenceName != "" {
		return m.conferenceName
	}
	return m.conferenceID
}

func (m Model) shiftTab(delta int) homedomain.Tab {
	n := len(homedomain.Tabs)
	return homedomain.Tabs[(int(m.entry.Tab)+delta+n)%n]
}

// childFiltering reports whether the active list filter is open, in which
// case global key bindings must yield to allow free typing.
func (m Model) childFiltering() bool {
	if m.home == nil {
		return m.picker.Filtering()
	}
	if m.entry.Tab == homedomain.TabSpeakers {
		return m.speakersView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-3, 1)}
	m.picker, _ = m.picker.Update(sz)
	m.detail, _ = m.detail.Update(sz)
	switch m.entry.Tab {
	case homedomain.TabSessions:
		m.scheduleView, _ = m.scheduleView.Update(sz)
	case homedomain.TabSpeakers:
		m.speakersView, _ = m.speakersView.Update(sz)
	case homedomain.TabBookmarks:
		m.bookmarksView, _ = m.bookmarksView.Update(sz)
	case homedomain.TabVenue:
		m.venueView, _ = m.venueView.Update(sz)
	}
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) navigator() Navigator {
	send := func(msg tea.Msg) {
		select {
		case m.nav <- msg:
		default:
		}
	}
	return Navigator{
		OnSessionSelected:  func(id string) { send(openSessionMsg{sessionID: id}) },
		OnSignIn:           func() { send(signInRequestedMsg{}) },
		OnSwitchConference: func() { send(switchConferenceMsg{}) },
	}
}

func (m Model) listenNav() tea.Cmd {
	return components.Listen(m.nav, func(msg tea.Msg) tea.Msg { return navMsg{inner: msg} }, nil)
}

func (m Model) listenHome() tea.Cmd {
	ch := m.homeCh
	return components.Listen(ch, func(e homedomain.Entry) tea.Msg { return entryMsg{entry: e, src: ch} }, nil)
}

func (m Model) openHomeCmd(conferenceID, name string) tea.Cmd {
	nav := m.navigator()
	return func() tea.Msg {
		home, err := m.openHome(context.Background(), conferenceID, nav)
		return homeOpenedMsg{home: home, name: name, err: err}
	}
}

// reopenHome rebuilds the home screen so its children see the current user.
func (m Model) reopenHome() tea.Cmd {
	if m.home == nil {
		return nil
	}
	return m.openHomeCmd(m.conferenceID, m.conferenceName)
}

func (m Model) loadUserCmd() tea.Cmd {
	return func() tea.Msg {
		user, ok, err := m.auth.WhoAmI(context.Background())
		return userLoadedMsg{user: user, signedIn: ok, err: err}
	}
}

func (m Model) signInCmd(name, email string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.auth.SignIn(context.Background(), name, email)
		return signedInMsg{user: user, err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: m.auth.SignOut(context.Background())}
	}
}
