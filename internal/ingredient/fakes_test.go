package ingredients

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// memoryCatalog is a set-on-insert store guarded by a mutex, standing in
// for the unique constraint of the real table.
type memoryCatalog struct {
	mu       sync.Mutex
	entries  map[string]Ingredient
	failFor  map[string]error
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{entries: map[string]Ingredient{}, failFor: map[string]error{}}
}

func (m *memoryCatalog) FindByName(_ context.Context, name string) (*Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ingredient, ok := m.entries[name]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	return &ingredient, nil
}

func (m *memoryCatalog) UpsertSetOnInsert(_ context.Context, name string, unit *string) (bool, error) {
	m.calls.Add(1)
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if current <= peak || m.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[name]; ok {
		return false, err
	}
	if _, exists := m.entries[name]; exists {
		return false, nil
	}
	now := time.Now()
	m.entries[name] = Ingredient{ID: uuid.New(), Name: name, Unit: unit, CreatedAt: now, UpdatedAt: now}
	return true, nil
}

func (m *memoryCatalog) ListAllSortedByName(_ context.Context) ([]Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []Ingredient
	for _, ingredient := range m.entries {
		list = append(list, ingredient)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// snapshot returns name -> unit ("" when absent).
func (m *memoryCatalog) snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for name, ingredient := range m.entries {
		unit := ""
		if ingredient.Unit != nil {
			unit = *ingredient.Unit
		}
		out[name] = unit
	}
	return out
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
