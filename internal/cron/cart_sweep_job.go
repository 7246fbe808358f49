package cron

import (
	"context"
	"errors"
	"time"

	"github.com/zora-fashion/storefront/pkg/logger"
)

const defaultCartIdle = 30 * time.Minute

type cartSweeper interface {
	Sweep(idle time.Duration) int
}

type CartSweepJobParams struct {
	Logger   *logger.Logger
	Registry cartSweeper
	Idle     time.Duration
}

// NewCartSweepJob evicts in-process carts idle for longer than Idle. Evicted carts are already
// persisted and reload from storage on the shopper's next request.
func NewCartSweepJob(params CartSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Registry == nil {
		return nil, errors.New("cart registry required")
	}
	idle := params.Idle
	if idle <= 0 {
		idle = defaultCartIdle
	}
	return &cartSweepJob{logg: params.Logger, registry: params.Registry, idle: idle}, nil
}

type cartSweepJob struct {
	logg     *logger.Logger
	registry cartSweeper
	idle     time.Duration
}

func (j *cartSweepJob) Name() string { return "cart_sweep" }

func (j *cartSweepJob) Run(ctx context.Context) error {
	if evicted := j.registry.Sweep(j.idle); evicted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "evicted", evicted), "idle carts evicted")
	}
	return nil
}
