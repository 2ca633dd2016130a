// Package chat implements the grounded chat assistant: a transcript of
// ordered messages and a controller that consumes incrementally streamed
// response fragments.
package chat

import "sync"

// Role identifies the author of a transcript entry.
type Role string

// Transcript entry roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message in the conversation.
type Entry struct {
	Role    Role
	Content string
}

// Transcript is an ordered conversation. Entries are never reordered
// after insertion; only the last entry's content mutates, and only while
// a response is streaming in.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// Append adds an entry at the end of the transcript.
func (t *Transcript) Append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// AppendToLast appends a fragment to the content of the last entry.
func (t *Transcript) AppendToLast(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return
	}
	t.entries[len(t.entries)-1].Content += fragment
}

// ReplaceLast swaps out the content of the last entry.
func (t *Transcript) ReplaceLast(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return
	}
	t.entries[len(t.entries)-1].Content = content
}

// Last returns the final entry and whether one exists.
func (t *Transcript) Last() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns a copy of the conversation in insertion order.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
