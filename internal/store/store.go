// Package store persists named collections as flat JSON files. Each
// collection is a single file holding a JSON array of records (or a JSON
// object for keyed collections such as users). Every write replaces the
// whole file; there is no append path and no cross-collection atomicity.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrCorrupt marks a collection whose backing content cannot be parsed.
// Callers must surface it rather than treat the collection as empty.
var ErrCorrupt = errors.New("corrupt collection")

// Timestamp layouts shared by every collection.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
	idLayout       = "20060102150405"
)

// Backend abstracts the physical medium so tests can run fully in memory
// while keeping the identical whole-collection read/write contract.
type Backend interface {
	// Read returns the raw collection content and whether it exists.
	Read(name string) (data []byte, exists bool, err error)
	// Write replaces the collection content, creating parents as needed.
	Write(name string, data []byte) error
}

// Store manages JSON collections over a Backend. It serializes mutating
// access per collection within this process; concurrent writers in other
// processes still race last-write-wins, which is an accepted limitation.
type Store struct {
	backend Backend

	locks sync.Map // collection name -> *sync.Mutex

	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

// Open returns a Store backed by JSON files under dir.
func Open(dir string) *Store {
	return New(&FileBackend{Dir: dir})
}

// NewMemory returns a Store backed by an in-process map, for tests.
func NewMemory() *Store {
	return New(NewMemoryBackend())
}

// New returns a Store over an arbitrary backend.
func New(b Backend) *Store {
	return &Store{backend: b, now: time.Now}
}

// SetClock overrides the wall clock, for tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Lock acquires the per-collection mutex and returns the unlock func.
// Mutating operations hold it for their whole load-modify-save cycle.
func (s *Store) Lock(name string) func() {
	v, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Load reads a collection into out (a *[]T or *map[string]T). A missing
// backing file leaves out untouched, which callers treat as empty.
func (s *Store) Load(name string, out any) error {
	data, exists, err := s.backend.Read(name)
	if err != nil {
		return fmt.Errorf("load collection %q: %w", name, err)
	}
	if !exists {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("collection %q: %w: %v", name, ErrCorrupt, err)
	}
	return nil
}

// Save replaces the whole collection with v.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", name, err)
	}
	if err := s.backend.Write(name, data); err != nil {
		return fmt.Errorf("save collection %q: %w", name, err)
	}
	return nil
}

// NextID generates a lexically increasing second-resolution identifier.
// Within one process, ids issued in the same second are bumped to stay
// strictly increasing; uniqueness across processes is best effort only.
func (s *Store) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, err := strconv.ParseInt(s.now().Format(idLayout), 10, 64)
	if err != nil || candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	s.lastID = candidate
	return strconv.FormatInt(candidate, 10)
}

// NextFineID generates a microsecond-resolution identifier, used by the
// audit log where several events can land within one second.
func (s *Store) NextFineID() string {
	t := s.now()
	return t.Format(idLayout) + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// Timestamp returns the current time in the shared datetime layout.
func (s *Store) Timestamp() string {
	return s.now().Format(DateTimeLayout)
}
