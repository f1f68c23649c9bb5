package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"confetti/internal/modules/bookmarks/domain"
	bookmarksout "confetti/internal/modules/bookmarks/port/out"
	conferencedomain "confetti/internal/modules/conference/domain"
	"confetti/internal/platform/markdown"
	"confetti/internal/platform/slug"
)

const (
	AgendaStart = "<!-- confetti:bookmarks:start -->"
	AgendaEnd   = "<!-- confetti:bookmarks:end -->"
)

// MarkdownAgendaWriter writes one agenda note per conference. Frontmatter
// keys it does not own and text outside the managed block survive rewrites.
type MarkdownAgendaWriter struct{}

var _ bookmarksout.AgendaWriter = MarkdownAgendaWriter{}

func NewMarkdownAgendaWriter() MarkdownAgendaWriter {
	return MarkdownAgendaWriter{}
}

// AgendaPath is where the agenda for a conference lives inside dir.
func AgendaPath(dir, conferenceName string) string {
	return filepath.Join(dir, slug.Make(conferenceName)+"-bookmarks.md")
}

func (MarkdownAgendaWriter) WriteAgenda(_ context.Context, dir string, agenda domain.Agenda) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create agenda dir: %w", err)
	}
	path := AgendaPath(dir, agenda.ConferenceName)

	note := markdown.Note{Meta: map[string]any{}, Body: "# " + agenda.ConferenceName + "\n"}
	if content, err := os.ReadFile(path); err == nil {
		existing, parseErr := markdown.Parse(string(content))
		if parseErr != nil {
			return "", fmt.Errorf("parse %s: %w", path, parseErr)
		}
		note = existing
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read agenda: %w", err)
	}

	note.Meta["conference"] = agenda.ConferenceID
	note.Meta["generated_at"] = agenda.GeneratedAt.Format(time.RFC3339)
	note.Meta["bookmarks"] = agenda.State.Bookmarks.Len()
	note.Meta["upcoming"] = agenda.State.UpcomingSessions.Count()
	note.Meta["past"] = agenda.State.PastSessions.Count()
	if agenda.UserID != "" {
		note.Meta["user"] = agenda.UserID
	} else {
		delete(note.Meta, "user")
	}

	note.Body = markdown.ReplaceBlock(note.Body, AgendaStart, AgendaEnd, RenderAgenda(agenda.State))
	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write agenda: %w", err)
	}
	return path, nil
}

// RenderAgenda renders the managed part of the note. Past sessions are
// checked off.
func RenderAgenda(state domain.Success) string {
	b := strings.Builder{}
	b.WriteString("## Upcoming\n")
	writeSection(&b, state.UpcomingSessions, "[ ]")
	b.WriteString("\n## Past\n")
	writeSection(&b, state.PastSessions, "[x]")
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, m domain.DateSessionsMap, box string) {
	if m.IsEmpty() {
		b.WriteString("\n_Nothing here._\n")
		return
	}
	for start, sessions := range m.All() {
		fmt.Fprintf(b, "\n### %s\n\n", start.Format("Mon 2 Jan 15:04"))
		for _, s := range sessions {
			fmt.Fprintf(b, "- %s %s\n", box, line(s))
		}
	}
}

func line(s conferencedomain.Session) string {
	parts := []string{fmt.Sprintf("**%s** (`%s`)", s.Title, s.ID)}
	if s.Room != "" {
		parts = append(parts, s.Room)
	}
	if names := s.SpeakerNames(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	parts = append(parts, s.StartsAt.Format("15:04")+"-"+s.EndsAt.Format("15:04"))
	return strings.Join(parts, " · ")
}
