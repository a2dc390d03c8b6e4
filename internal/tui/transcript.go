package tui

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Entry struct {
	Role    string
	Content string
}

// Transcript is the session's conversation. It only grows.
type Transcript struct {
	entries []Entry
}

func (t *Transcript) Append(role, content string) {
	t.entries = append(t.entries, Entry{Role: role, Content: content})
}

// Entries returns a copy so callers cannot rewrite history.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int { return len(t.entries) }
