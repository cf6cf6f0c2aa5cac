package router

// Entry represents a single scene on the navigation stack.
// It stores the scene identifier, the payload the scene was activated
// with, and the live instance owned by the entry.
type Entry struct {
	Scene    string
	Payload  Payload
	Instance Instance
}

// Stack holds the active scenes. The last entry is the visible one.
// Entries are only ever added or removed at the top.
type Stack struct {
	entries []*Entry
}

// NewStack creates a new empty navigation stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]*Entry, 0),
	}
}

// Push adds a new entry on top of the stack and returns it.
// The entry's Source is the identifier of the previous top, if any.
// Push does not activate anything; the caller owns the Instance field.
func (s *Stack) Push(scene string, data any, metadata Metadata) *Entry {
	source := ""
	if top := s.Peek(); top != nil {
		source = top.Scene
	}
	entry := &Entry{
		Scene: scene,
		Payload: Payload{
			Data:     data,
			Metadata: metadata,
			Source:   source,
		},
	}
	s.entries = append(s.entries, entry)
	return entry
}

// Replace swaps the top entry for a new one in a single step.
// The new entry's Source is the replaced entry's identifier.
// On an empty stack Replace behaves like Push and replaced is nil.
func (s *Stack) Replace(scene string, data any, metadata Metadata) (replaced, entry *Entry) {
	if len(s.entries) == 0 {
		return nil, s.Push(scene, data, metadata)
	}
	replaced = s.entries[len(s.entries)-1]
	entry = &Entry{
		Scene: scene,
		Payload: Payload{
			Data:     data,
			Metadata: metadata,
			Source:   replaced.Scene,
		},
	}
	s.entries[len(s.entries)-1] = entry
	return replaced, entry
}

// Pop removes and returns the top entry. The revealed entry receives a
// fresh payload carrying data, metadata and the popped identifier.
// Returns ErrStackBottom without mutating when fewer than two entries remain.
func (s *Stack) Pop(data any, metadata Metadata) (*Entry, error) {
	if len(s.entries) < 2 {
		return nil, ErrStackBottom
	}
	popped := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]

	s.entries[len(s.entries)-1].Payload = Payload{
		Data:     data,
		Metadata: metadata,
		Source:   popped.Scene,
	}
	return popped, nil
}

// Peek returns the top entry without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// Below returns the entry directly beneath the top, or nil.
func (s *Stack) Below() *Entry {
	if len(s.entries) < 2 {
		return nil
	}
	return s.entries[len(s.entries)-2]
}

// Entries returns a bottom-to-top copy of the stack.
func (s *Stack) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all entries from the stack. Instances are not released.
func (s *Stack) Clear() {
	for i := range s.entries {
		s.entries[i] = nil
	}
	s.entries = s.entries[:0]
}
