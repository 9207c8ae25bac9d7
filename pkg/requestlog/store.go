package requestlog

// Logger records entries.
type Logger interface {
	Log(entry *Entry)
}

// Store is request history storage.
type Store interface {
	Logger

	// Get retrieves an entry by ID, or nil.
	Get(id string) *Entry

	// List returns entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for filtering request history.
type Filter struct {
	// Method filters by HTTP method, ignoring case.
	Method string

	// Path filters by path prefix.
	Path string

	// Project filters by project name, ignoring case.
	Project string

	// Status filters by response status code.
	Status int

	// HasError filters by error presence.
	HasError *bool

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}
