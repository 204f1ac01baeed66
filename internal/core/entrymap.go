package core

import "sync"

// syncMap is a typed wrapper around sync.Map for name -> *Entry (a table's
// chain head). sync.Map fits this access pattern well: keys are stable once
// created and reads vastly outnumber writes.
type syncMap struct {
	m sync.Map
}

// loadOrStoreEntry returns the existing chain head for name, or atomically
// installs and returns a freshly allocated one.
func (s *syncMap) loadOrStoreEntry(name string) *Entry {
	v, _ := s.m.LoadOrStore(name, newEntry(0))
	return v.(*Entry)
}

func (s *syncMap) load(name string) (*Entry, bool) {
	v, ok := s.m.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Entry), true
}

func (s *syncMap) delete(name string) {
	s.m.Delete(name)
}

// names returns a snapshot of every table name currently registered. The
// snapshot may be stale by the time the caller uses it.
func (s *syncMap) names() []string {
	var out []string
	s.m.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	return out
}
