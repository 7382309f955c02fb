package shopping

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
)

type memoryStore struct {
	mu       sync.Mutex
	values   map[string][]byte
	getErr   error
	setErr   error
	setDelay time.Duration
	sets     atomic.Int32
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	raw, ok := m.values[key]
	return raw, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.sets.Add(1)
	if m.setDelay > 0 {
		time.Sleep(m.setDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.values[key])
}

type fakeLister struct {
	recipes []recipes.Recipe
	err     error
}

func (f *fakeLister) ListRecipes(_ context.Context) ([]recipes.Recipe, error) {
	return f.recipes, f.err
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}
