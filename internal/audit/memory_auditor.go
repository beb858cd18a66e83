package audit

import "sync"

var _ Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor stores audit entries in memory. Mostly useful in tests.
type InMemoryAuditor struct {
	mu      sync.Mutex
	entries []Entry
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{
		entries: make([]Entry, 0),
	}
}

func (i *InMemoryAuditor) Log(entry Entry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	return nil
}

// Entries returns a copy of everything logged so far.
func (i *InMemoryAuditor) Entries() []Entry {
	i.mu.Lock()
	defer i.mu.Unlock()

	entries := make([]Entry, len(i.entries))
	copy(entries, i.entries)
	return entries
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}
