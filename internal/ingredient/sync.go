package ingredients

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	"github.com/sebuszqo/RecipeBook/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Ref is an ingredient reference taken from a recipe write.
// An empty Unit means no unit.
type Ref struct {
	Name string
	Unit string
}

func (r Ref) unit() *string {
	if r.Unit == "" {
		return nil
	}
	u := r.Unit
	return &u
}

// Normalize trims names and units and drops references whose name is
// blank. Only the first reference for a given name is kept.
func Normalize(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(refs))
	normalized := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, Ref{Name: name, Unit: strings.TrimSpace(ref.Unit)})
	}
	return normalized
}

type Upserter interface {
	UpsertSetOnInsert(ctx context.Context, name string, unit *string) (bool, error)
}

// Synchronizer keeps the catalog in step with the ingredients embedded in
// recipes. It holds no locks of its own; per-name atomicity comes from the
// store's upsert.
type Synchronizer struct {
	repo           Upserter
	maxConcurrency int
	log            *logger.Logger
}

// NewSynchronizer builds a Synchronizer. maxConcurrency bounds the number of
// in-flight upserts; zero means unbounded.
func NewSynchronizer(repo Upserter, maxConcurrency int, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		repo:           repo,
		maxConcurrency: maxConcurrency,
		log:            log.With("service", "IngredientSynchronizer"),
	}
}

// Sync upserts every valid reference concurrently and returns once all of
// them have settled. Upserts that succeeded stay applied even when another
// one fails; the first failure is returned as a StorageFault.
func (s *Synchronizer) Sync(ctx context.Context, refs []Ref) error {
	normalized := Normalize(refs)
	if len(normalized) == 0 {
		return nil
	}

	// No derived context: a failing upsert must not cancel its siblings.
	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}

	var created atomic.Int32
	for _, ref := range normalized {
		g.Go(func() error {
			inserted, err := s.repo.UpsertSetOnInsert(ctx, ref.Name, ref.unit())
			if err != nil {
				s.log.Error("Failed to upsert ingredient", "name", ref.Name, "error", err)
				return fmt.Errorf("upsert ingredient %q: %w", ref.Name, err)
			}
			if inserted {
				created.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return recipeErrors.NewStorageFault("sync ingredients", err)
	}

	s.log.Debug("Ingredients synchronized", "references", len(normalized), "created", created.Load())
	return nil
}
