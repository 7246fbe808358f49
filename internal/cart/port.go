package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/storage"
)

// Port loads and saves the cart snapshot for one session.
type Port interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

const snapshotName = "cart"

// StoragePort keeps the snapshot as a JSON array under zora:session:<sid>:cart.
type StoragePort struct {
	store storage.Store
	key   string
	ttl   time.Duration
}

var _ Port = (*StoragePort)(nil)

func NewStoragePort(store storage.Store, sessionID string, ttl time.Duration) *StoragePort {
	return &StoragePort{store: store, key: storage.SessionKey(sessionID, snapshotName), ttl: ttl}
}

// Load returns an empty snapshot when nothing was persisted. Unreadable data is a dependency
// error; it is never silently reset.
func (p *StoragePort) Load(ctx context.Context) (Snapshot, error) {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart snapshot").
			WithDetails(map[string]any{"key": p.key})
	}
	if snapshot == nil {
		snapshot = Snapshot{}
	}
	return snapshot, nil
}

func (p *StoragePort) Save(ctx context.Context, snapshot Snapshot) error {
	if snapshot == nil {
		snapshot = Snapshot{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.key, string(raw), p.ttl)
}
