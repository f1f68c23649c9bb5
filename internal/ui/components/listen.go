package components

import tea "github.com/charmbracelet/bubbletea"

// Listen turns the next value received from ch into a message. When ch is
// closed it yields closed, which may be nil to stop listening silently.
func Listen[T any](ch <-chan T, wrap func(T) tea.Msg, closed tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return closed
		}
		return wrap(v)
	}
}
