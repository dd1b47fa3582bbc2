package tui

// History backs the input line's Up/Down recall. It keeps the last max
// commands and a cursor that walks them oldest-to-newest; a cursor of -1
// means the player is typing fresh input, not browsing.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory returns an empty history holding at most max commands.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a command, dropping the oldest entry once the buffer is
// full. Repeating the previous command records nothing.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev steps the cursor toward older commands and returns the one it
// lands on. An empty history reports false.
func (h *History) Prev() (string, bool) {
	switch {
	case len(h.entries) == 0:
		return "", false
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps the cursor toward newer commands. Walking past the newest
// entry leaves browsing mode and reports false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves browsing mode; the next Prev starts from the newest
// entry again.
func (h *History) ResetCursor() {
	h.cursor = -1
}
