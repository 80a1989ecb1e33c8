package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/metrics"
	"github.com/ecomdash/ecomdash/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func (a *app) withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

func (a *app) newLiveStore() *metrics.Store {
	opts := metrics.Options{
		Delay:  a.cfg.RefreshDelay,
		Logger: a.log,
	}
	if a.cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(a.cfg.Seed, 0))
	}
	return metrics.NewStore(opts)
}

func (a *app) newRunner() *experiment.Runner {
	return experiment.NewRunner(experiment.Options{
		Delay:  a.cfg.ExperimentDelay,
		Logger: a.log,
	})
}
