// Package sqlstore persists storage entries in the kv_entries table through GORM, so session
// state survives restarts without a Redis deployment.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zora-fashion/storefront/pkg/db"
	"github.com/zora-fashion/storefront/pkg/db/models"
	"github.com/zora-fashion/storefront/pkg/storage"
)

type Store struct {
	client *db.Client
	now    func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New(client *db.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Store{client: client, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.find(s.client.DB().WithContext(ctx), key)
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	now := s.now()
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiry(now, ttl),
		UpdatedAt: now,
	}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"entry_value", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	conn := s.client.DB().WithContext(ctx)
	if err := s.purgeExpired(conn, key); err != nil {
		return false, err
	}

	now := s.now()
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiry(now, ttl),
		UpdatedAt: now,
	}
	if err := conn.Create(&entry).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var count int64
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.purgeExpired(tx, key); err != nil {
			return err
		}

		now := s.now()
		entry := models.KVEntry{
			Key:       key,
			Value:     "1",
			ExpiresAt: expiry(now, ttl),
			UpdatedAt: now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"entry_value": gorm.Expr("CAST(CAST(kv_entries.entry_value AS INTEGER) + 1 AS TEXT)"),
				"updated_at":  now,
			}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}

		current, err := s.find(tx, key)
		if err != nil {
			return err
		}
		count, err = strconv.ParseInt(current.Value, 10, 64)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.DB().WithContext(ctx).Where("entry_key IN ?", keys).Delete(&models.KVEntry{}).Error
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// PurgeExpired deletes every expired row and reports how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.client.DB().WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&models.KVEntry{})
	return res.RowsAffected, res.Error
}

func (s *Store) find(conn *gorm.DB, key string) (models.KVEntry, error) {
	var entry models.KVEntry
	err := conn.Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.KVEntry{}, storage.ErrNotFound
	}
	if err != nil {
		return models.KVEntry{}, err
	}
	if entry.Expired(s.now()) {
		return models.KVEntry{}, storage.ErrNotFound
	}
	return entry, nil
}

func (s *Store) purgeExpired(conn *gorm.DB, key string) error {
	var entry models.KVEntry
	err := conn.Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !entry.Expired(s.now()) {
		return nil
	}
	return conn.Where("entry_key = ?", key).Delete(&models.KVEntry{}).Error
}

func expiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	at := now.Add(ttl)
	return &at
}
