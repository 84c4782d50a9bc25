package counter

import (
	"encoding/json"
	"strings"
	"sync"
)

// DefaultIconPath decorates counters that were created without an icon.
const DefaultIconPath = "Resources/CounterIcon.png"

// Counter is one named tally shown on the counter view.
type Counter struct {
	Name     string
	Value    int
	IconPath string
}

// Set is the thread-safe ordered collection of counters. Names are matched
// case-insensitively but keep their original casing for display. Every
// mutation marks the set dirty so the broadcaster knows a fresh snapshot is
// due.
type Set struct {
	mu       sync.Mutex
	name     string
	counters []Counter
	dirty    bool
}

// NewSet creates a named, empty, dirty set so the first broadcast tick
// pushes an initial (possibly empty) snapshot to connected views.
func NewSet(name string) *Set {
	if name == "" {
		name = "default"
	}
	return &Set{name: name, dirty: true}
}

// Name returns the collection name.
func (s *Set) Name() string { return s.name }

// Add creates a counter with a zero value. Adding an existing name is a
// no-op.
func (s *Set) Add(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(name) >= 0 {
		return
	}
	s.counters = append(s.counters, Counter{Name: name, IconPath: DefaultIconPath})
	s.dirty = true
}

// Remove deletes the named counter. Unknown names are a no-op.
func (s *Set) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(name)
	if i < 0 {
		return
	}
	s.counters = append(s.counters[:i], s.counters[i+1:]...)
	s.dirty = true
}

// Increase adds delta to the named counter. Unknown names are a no-op.
func (s *Set) Increase(name string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(name)
	if i < 0 {
		return
	}
	s.counters[i].Value += delta
	s.dirty = true
}

// Decrease subtracts delta from the named counter.
func (s *Set) Decrease(name string, delta int) {
	s.Increase(name, -delta)
}

// SetValue pins the named counter to an exact value. Unknown names are a
// no-op.
func (s *Set) SetValue(name string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(name)
	if i < 0 {
		return
	}
	s.counters[i].Value = value
	s.dirty = true
}

// Snapshot returns a copy of the current counters in display order.
func (s *Set) Snapshot() []Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Counter, len(s.counters))
	copy(out, s.counters)
	return out
}

// MarkDirty forces the next broadcast tick to push a snapshot, used when a
// new view connects and needs the current state.
func (s *Set) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

// consumeDirty reports and clears the dirty flag atomically.
func (s *Set) consumeDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.dirty
	s.dirty = false
	return d
}

// Encode renders the counters as the view's wire format, a JSON array of
// [name, value, iconPath] triples.
func (s *Set) Encode() []byte {
	snapshot := s.Snapshot()
	rows := make([][]any, 0, len(snapshot))
	for _, c := range snapshot {
		rows = append(rows, []any{c.Name, c.Value, c.IconPath})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		panic("counter: encode snapshot: " + err.Error())
	}
	return data
}

// find returns the index of the named counter, matching case-insensitively.
// Callers must hold the mutex.
func (s *Set) find(name string) int {
	for i, c := range s.counters {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
