package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/zora-fashion/storefront/pkg/logger"
)

type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type KVPurgeJobParams struct {
	Logger *logger.Logger
	Store  expiredPurger
}

// NewKVPurgeJob deletes expired entries from backends that do not expire keys on their own
// (the SQL kv_entries table and the in-memory map). Reads already ignore expired entries; this
// only reclaims space.
func NewKVPurgeJob(params KVPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Store == nil {
		return nil, errors.New("purger required")
	}
	return &kvPurgeJob{logg: params.Logger, store: params.Store}, nil
}

type kvPurgeJob struct {
	logg  *logger.Logger
	store expiredPurger
}

func (j *kvPurgeJob) Name() string { return "kv_purge" }

func (j *kvPurgeJob) Run(ctx context.Context) error {
	deleted, err := j.store.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired entries: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "deleted", deleted), "expired entries purged")
	return nil
}
