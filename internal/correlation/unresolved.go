package correlation

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// UnresolvedSet collects old patient IDs that had no entry in the
// correlation table. Append-only during a run, safe for concurrent use.
type UnresolvedSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewUnresolvedSet returns an empty set.
func NewUnresolvedSet() *UnresolvedSet {
	return &UnresolvedSet{ids: make(map[string]struct{})}
}

// Add records an unresolved old ID.
func (s *UnresolvedSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Len returns the number of distinct unresolved IDs.
func (s *UnresolvedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the unresolved IDs in sorted order.
func (s *UnresolvedSet) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WriteLog writes one unresolved ID per line to path.
func (s *UnresolvedSet) WriteLog(path string) error {
	ids := s.IDs()
	if len(ids) == 0 {
		return nil
	}

	data := strings.Join(ids, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("could not write unresolved ID log: %w", err)
	}
	return nil
}
