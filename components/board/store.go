package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// LayoutKeyPrefix namespaces stored layouts.
const LayoutKeyPrefix = "board-layout-"

func layoutStorageKey(id string) string { return LayoutKeyPrefix + id }

// LayoutStore persists layout snapshots for ExportLocal and ImportLocal.
type LayoutStore interface {
	SaveLayout(ctx context.Context, key string, layout LayoutJSON) error
	LoadLayout(ctx context.Context, key string) (LayoutJSON, bool, error)
}

// MemoryLayoutStore keeps encoded snapshots in memory, the way a browser
// keeps them in local storage.
type MemoryLayoutStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryLayoutStore creates an empty store.
func NewMemoryLayoutStore() *MemoryLayoutStore {
	return &MemoryLayoutStore{data: make(map[string][]byte)}
}

// SaveLayout encodes and stores the layout under key.
func (s *MemoryLayoutStore) SaveLayout(_ context.Context, key string, layout LayoutJSON) error {
	if key == "" {
		return fmt.Errorf("board: layout store key is required")
	}
	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("board: encode layout %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return nil
}

// LoadLayout decodes the layout stored under key.
func (s *MemoryLayoutStore) LoadLayout(_ context.Context, key string) (LayoutJSON, bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return LayoutJSON{}, false, nil
	}
	var layout LayoutJSON
	if err := json.Unmarshal(raw, &layout); err != nil {
		return LayoutJSON{}, false, fmt.Errorf("board: decode layout %s: %w", key, err)
	}
	return layout, true, nil
}

// Keys lists stored keys in order.
func (s *MemoryLayoutStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Delete removes a stored layout.
func (s *MemoryLayoutStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
