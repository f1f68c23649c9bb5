package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Note is a markdown file with a YAML frontmatter header.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without a leading
// fence has empty metadata. One blank line after the closing fence belongs
// to the separator, not the body.
func Parse(content string) (Note, error) {
	if !strings.HasPrefix(content, fence) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	var header, after string
	if strings.HasPrefix(rest, fence) {
		after = rest[len(fence):]
	} else {
		idx := strings.Index(rest, "\n"+fence)
		if idx < 0 {
			return Note{}, fmt.Errorf("invalid frontmatter: missing closing fence")
		}
		header, after = rest[:idx], rest[idx+len("\n"+fence):]
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	// A null document ("~") decodes to a nil map.
	if meta == nil {
		meta = map[string]any{}
	}
	return Note{Meta: meta, Body: strings.TrimPrefix(after, "\n")}, nil
}

func (n Note) Render() (string, error) {
	raw, err := yaml.Marshal(n.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	buf.WriteString("\n")
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// ReplaceBlock swaps the text between start and end markers for generated,
// appending a new block when the markers are absent. Text outside the
// markers is preserved.
func ReplaceBlock(body, start, end, generated string) string {
	block := start + "\n" + generated + "\n" + end
	i := strings.Index(body, start)
	j := strings.Index(body, end)
	if i >= 0 && j > i {
		return body[:i] + block + body[j+len(end):]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
