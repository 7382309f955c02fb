package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// memoryRepository enforces title uniqueness on insert the way the table
// constraint does. With blindTitleLookup set, FindByTitle never finds
// anything, which simulates losing the check-then-insert race.
type memoryRepository struct {
	mu               sync.Mutex
	recipes          map[uuid.UUID]Recipe
	blindTitleLookup bool
	failWith         error
	log              *eventLog
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{recipes: map[uuid.UUID]Recipe{}}
}

func (m *memoryRepository) FindByTitle(_ context.Context, title string) (*Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.blindTitleLookup {
		return nil, ErrRecipeNotFound
	}
	for _, recipe := range m.recipes {
		if recipe.Title == title {
			return &recipe, nil
		}
	}
	return nil, ErrRecipeNotFound
}

func (m *memoryRepository) Insert(_ context.Context, recipe *Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.add("insert")
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.recipes {
		if existing.Title == recipe.Title {
			return ErrRecipeTitleTaken
		}
	}
	m.recipes[recipe.ID] = *recipe
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, recipeID uuid.UUID) (*Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return &recipe, nil
}

func (m *memoryRepository) UpdateByID(_ context.Context, recipe *Recipe) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.add("update")
	if _, ok := m.recipes[recipe.ID]; !ok {
		return 0, nil
	}
	for id, existing := range m.recipes {
		if id != recipe.ID && existing.Title == recipe.Title {
			return 0, ErrRecipeTitleTaken
		}
	}
	m.recipes[recipe.ID] = *recipe
	return 1, nil
}

func (m *memoryRepository) DeleteByID(_ context.Context, recipeID uuid.UUID) (*Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	delete(m.recipes, recipeID)
	return &recipe, nil
}

func (m *memoryRepository) ListAllSortedByCreatedDesc(_ context.Context) ([]Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var list []Recipe
	for _, recipe := range m.recipes {
		list = append(list, recipe)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *memoryRepository) titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var titles []string
	for _, recipe := range m.recipes {
		titles = append(titles, recipe.Title)
	}
	sort.Strings(titles)
	return titles
}

type recordingSyncer struct {
	mu    sync.Mutex
	calls [][]ingredients.Ref
	err   error
	log   *eventLog
}

func (s *recordingSyncer) Sync(_ context.Context, refs []ingredients.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.add("sync")
	s.calls = append(s.calls, refs)
	return s.err
}

func (s *recordingSyncer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
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
