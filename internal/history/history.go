// Package history keeps submitted commands for shell-style recall.
package history

// History is an append-only list of commands with a recall cursor.
// Invariant: 0 <= cursor <= len(entries). cursor == len(entries) means the
// user is editing fresh input rather than recalling an entry.
// Not safe for concurrent use; it is owned by a single console model.
type History struct {
	entries []string
	cursor  int
}

// New returns an empty History.
func New() *History {
	return &History{}
}

// Append records a command and moves the cursor past the end.
func (h *History) Append(command string) {
	h.entries = append(h.entries, command)
	h.cursor = len(h.entries)
}

// Prev steps the cursor back one entry, stopping at the first, and returns
// the entry under it. On an empty history it does nothing and reports false.
func (h *History) Prev() (string, bool) {
	next := max(h.cursor-1, 0)
	if next == 0 && len(h.entries) == 0 {
		return "", false
	}
	h.cursor = next
	return h.entries[next], true
}

// Next steps the cursor forward one entry. Past the last entry it returns
// the empty string, which clears the input.
func (h *History) Next() string {
	h.cursor = min(h.cursor+1, len(h.entries))
	if h.cursor == len(h.entries) {
		return ""
	}
	return h.entries[h.cursor]
}

// Cursor returns the recall position.
func (h *History) Cursor() int { return h.cursor }

// Len returns the number of recorded commands.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the recorded commands, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
