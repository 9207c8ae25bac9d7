package requestlog

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultMaxEntries is the capacity used when none is given.
const DefaultMaxEntries = 1000

// InMemoryStore is a bounded Store. Once full, the oldest entry is evicted
// for each new one.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    []*Entry
	maxEntries int
	nextID     int64
	now        func() time.Time
}

// NewInMemoryStore creates a store holding up to maxEntries entries.
func NewInMemoryStore(maxEntries int) *InMemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &InMemoryStore{
		entries:    make([]*Entry, 0, min(maxEntries, 64)),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Log records entry, assigning an ID and timestamp when missing.
func (s *InMemoryStore) Log(entry *Entry) {
	if entry == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	if entry.ID == "" {
		entry.ID = "req-" + strconv.FormatInt(s.nextID, 36)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	if len(s.entries) >= s.maxEntries {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, entry)
}

// Get retrieves an entry by ID.
func (s *InMemoryStore) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			c := *e
			return &c
		}
	}
	return nil
}

// List returns matching entries, newest first.
func (s *InMemoryStore) List(filter *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if filter != nil && !filter.matches(e) {
			continue
		}
		c := *e
		result = append(result, &c)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*Entry{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result
}

func (f *Filter) matches(e *Entry) bool {
	if f.Method != "" && !strings.EqualFold(e.Method, f.Method) {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(e.Path, f.Path) {
		return false
	}
	if f.Project != "" && !strings.EqualFold(e.Project, f.Project) {
		return false
	}
	if f.Status != 0 && e.Status != f.Status {
		return false
	}
	if f.HasError != nil && *f.HasError != (e.Error != "") {
		return false
	}
	return true
}

// Clear removes all entries. IDs keep increasing.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Count returns the number of entries.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
