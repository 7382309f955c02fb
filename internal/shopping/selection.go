package shopping

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

const (
	persistTimeout = 5 * time.Second
	loadTimeout    = 5 * time.Second
)

// Selection is the set of recipe ids chosen for shopping. Mutations apply
// in memory immediately; the full set is then written to the store in the
// background and write failures are only logged.
type Selection struct {
	store KeyValueStore
	key   string
	log   *logger.Logger

	mu      sync.Mutex
	ids     []uuid.UUID
	index   map[uuid.UUID]struct{}
	version uint64

	persistMu sync.Mutex
	persisted uint64
	pending   sync.WaitGroup
}

// LoadSelection reads the stored set under key. A missing key, a read
// error and unreadable data all start the selection empty.
func LoadSelection(ctx context.Context, store KeyValueStore, key string, log *logger.Logger) *Selection {
	s := &Selection{
		store: store,
		key:   key,
		log:   log.With("component", "ShoppingSelection", "key", key),
		index: map[uuid.UUID]struct{}{},
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		s.log.Warn("Failed to read shopping selection, starting empty", "error", err)
		return s
	}
	if !ok {
		return s
	}

	var stored []uuid.UUID
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("Stored shopping selection is unreadable, starting empty", "error", err)
		return s
	}
	for _, id := range stored {
		s.insert(id)
	}
	s.log.Debug("Shopping selection loaded", "count", len(s.ids))
	return s
}

func (s *Selection) insert(id uuid.UUID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Add selects a recipe and returns the resulting size. Adding a selected
// recipe changes nothing.
func (s *Selection) Add(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insert(id) {
		s.schedulePersist()
	}
	return len(s.ids)
}

// Remove deselects a recipe and returns the resulting size. Removing an
// unselected recipe changes nothing.
func (s *Selection) Remove(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return len(s.ids)
	}
	delete(s.index, id)
	for i, selected := range s.ids {
		if selected == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
	s.schedulePersist()
	return len(s.ids)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == 0 {
		return
	}
	s.ids = nil
	s.index = map[uuid.UUID]struct{}{}
	s.schedulePersist()
}

func (s *Selection) Has(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in the order they were added.
func (s *Selection) IDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID{}, s.ids...)
}

// Flush blocks until every scheduled write has finished. Mutations wait
// for a running Flush, so no write is scheduled while it waits.
func (s *Selection) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Wait()
}

// schedulePersist must be called with mu held.
func (s *Selection) schedulePersist() {
	s.version++
	snapshot := append([]uuid.UUID{}, s.ids...)
	version := s.version

	s.pending.Add(1)
	go s.persist(version, snapshot)
}

func (s *Selection) persist(version uint64, snapshot []uuid.UUID) {
	defer s.pending.Done()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	// a newer snapshot already reached the store
	if version <= s.persisted {
		return
	}
	s.persisted = version

	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error("Failed to encode shopping selection", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		s.log.Warn("Failed to persist shopping selection", "version", version, "error", err)
	}
}
