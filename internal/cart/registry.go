package cart

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/storage"
)

// PortFactory builds the persistence port for a session.
type PortFactory func(sessionID string) Port

// Registry hands out one Store per session, loading it from storage on first use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	newPort PortFactory
	logg    *logger.Logger
	metrics MetricsRecorder
	now     func() time.Time
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

type RegistryParams struct {
	Storage    storage.Store
	SessionTTL time.Duration
	// Ports overrides the storage-backed port, mainly for tests.
	Ports   PortFactory
	Logger  *logger.Logger
	Metrics MetricsRecorder
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	newPort := params.Ports
	if newPort == nil {
		if params.Storage == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart storage is required")
		}
		store, ttl := params.Storage, params.SessionTTL
		newPort = func(sessionID string) Port {
			return NewStoragePort(store, sessionID, ttl)
		}
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Registry{
		entries: make(map[string]*registryEntry),
		newPort: newPort,
		logg:    logg,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// Open returns the session's store, building it from the persisted snapshot if needed.
// A load failure is returned and nothing is cached, so the next call retries the load.
func (r *Registry) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[sessionID]; ok {
		entry.lastSeen = r.now()
		return entry.store, nil
	}

	store, err := NewStore(ctx, StoreParams{
		Port:    r.newPort(sessionID),
		Logger:  r.logg,
		Metrics: r.metrics,
	})
	if err != nil {
		return nil, err
	}
	r.entries[sessionID] = &registryEntry{store: store, lastSeen: r.now()}
	return store, nil
}

// Sweep drops stores idle for longer than idle and reports how many were released. Released
// sessions reload from storage on their next request.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	released := 0
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			released++
		}
	}
	return released
}

// Len reports how many sessions are currently held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
