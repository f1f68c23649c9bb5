package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"confetti/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// PaletteCommand is one palette entry. Name is "<group>:<verb>"; Args is
// the usage shown once the name is typed.
type PaletteCommand struct {
	Name    string
	Args    string
	Summary string
}

// PaletteCommands must stay in sync with the switch in app/model.go
// executePalette.
var PaletteCommands = []PaletteCommand{
	{Name: "auth:signin", Args: "<name> [email]", Summary: "sign in on this device"},
	{Name: "auth:signout", Summary: "sign out"},
	{Name: "auth:whoami", Summary: "show the signed-in user"},
	{Name: "conference:switch", Summary: "pick another conference"},
	{Name: "tab:sessions", Summary: "open the schedule"},
	{Name: "tab:speakers", Summary: "open the speakers"},
	{Name: "tab:bookmarks", Summary: "open your bookmarks"},
	{Name: "tab:venue", Summary: "open the venue"},
}

// matchCommands returns the commands for input. Before the first space the
// typed word is a prefix of the name, or of the verb alone ("sign" finds
// auth:signin). After it only the exact command remains.
func matchCommands(input string) []PaletteCommand {
	word, _, hasArgs := strings.Cut(strings.ToLower(strings.TrimLeft(input, " ")), " ")
	var out []PaletteCommand
	for _, c := range PaletteCommands {
		if hasArgs {
			if c.Name == word {
				return []PaletteCommand{c}
			}
			continue
		}
		_, verb, _ := strings.Cut(c.Name, ":")
		if strings.HasPrefix(c.Name, word) || strings.HasPrefix(verb, word) {
			out = append(out, c)
		}
	}
	return out
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	return p.OpenWith("")
}

// OpenWith shows the palette with the input prefilled.
func (p *Palette) OpenWith(prefill string) tea.Cmd {
	p.visible = true
	p.input.SetValue(prefill)
	p.input.CursorEnd()
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "tab":
			p.complete()
			return p, nil
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// complete replaces the typed word with the first matching command name.
func (p *Palette) complete() {
	value := p.input.Value()
	if strings.Contains(strings.TrimLeft(value, " "), " ") {
		return
	}
	matches := matchCommands(value)
	if len(matches) == 0 {
		return
	}
	c := matches[0]
	if c.Args != "" {
		p.input.SetValue(c.Name + " ")
	} else {
		p.input.SetValue(c.Name)
	}
	p.input.CursorEnd()
}

// Value is the current input.
func (p Palette) Value() string { return p.input.Value() }

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := matchCommands(p.input.Value())
	if len(matching) > 5 {
		matching = matching[:5]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("confetti") + hintStyle.Render("  tab completes") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, c := range matching {
			usage := c.Name
			if c.Args != "" {
				usage += " " + c.Args
			}
			sb.WriteString("  " + usage + hintStyle.Render("  "+c.Summary) + "\n")
		}
	} else {
		sb.WriteString("\n" + hintStyle.Render("  no such command") + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
