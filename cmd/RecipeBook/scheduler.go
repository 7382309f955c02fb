package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

type CatalogResyncer interface {
	ResyncCatalog(ctx context.Context) error
}

const resyncTimeout = 5 * time.Minute

func runCatalogResync(ctx context.Context, resyncer CatalogResyncer, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, resyncTimeout)
	defer cancel()

	if err := resyncer.ResyncCatalog(ctx); err != nil {
		log.Error("Error resyncing ingredient catalog", "error", err)
		return
	}
	log.Info("Ingredient catalog resynced successfully")
}

// StartCatalogResyncScheduler replays recipe ingredients into the catalog on
// the given cron schedule, e.g. "@every 6h" or "0 */6 * * *".
func StartCatalogResyncScheduler(schedule string, resyncer CatalogResyncer, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runCatalogResync(context.Background(), resyncer, log)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
