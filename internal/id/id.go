package id

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// namespace scopes name-based UUIDs so they never collide with ids minted
// by other tools hashing the same names.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/getmockd/tfxmock"))

// UUID generates a random UUID v4.
func UUID() string {
	return uuid.NewString()
}

// NameUUID returns a deterministic UUID v5 derived from the given parts.
// Parts are joined case-insensitively, so "Build" and "build" map to the same id.
func NameUUID(parts ...string) string {
	key := strings.ToLower(strings.Join(parts, "/"))
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// IsUUID reports whether s parses as a UUID in any of the accepted forms.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// Sequence hands out increasing integer ids. The zero value starts at 1.
type Sequence struct {
	mu   sync.Mutex
	last int
}

// Next returns the next id in the sequence.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// Observe records an id assigned elsewhere (e.g. seed data) so that Next
// never hands it out again.
func (s *Sequence) Observe(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}

// Reset rewinds the sequence so the next id is 1.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = 0
}

// Last returns the most recently issued or observed id.
func (s *Sequence) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
