package search

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/storage"
)

// MaxRecent caps the stored history.
const MaxRecent = 5

const historyName = "search_history"

// Port loads and saves one session's recent search terms, most recent first.
type Port interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, terms []string) error
}

// StoragePort keeps the terms as a JSON array under zora:session:<sid>:search_history.
type StoragePort struct {
	store storage.Store
	key   string
	ttl   time.Duration
}

var _ Port = (*StoragePort)(nil)

func NewStoragePort(store storage.Store, sessionID string, ttl time.Duration) *StoragePort {
	return &StoragePort{store: store, key: storage.SessionKey(sessionID, historyName), ttl: ttl}
}

func (p *StoragePort) Load(ctx context.Context) ([]string, error) {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load search history")
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode search history").
			WithDetails(map[string]any{"key": p.key})
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

func (p *StoragePort) Save(ctx context.Context, terms []string) error {
	if terms == nil {
		terms = []string{}
	}
	raw, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.key, string(raw), p.ttl)
}

// History is the recent-search list for one session. Unlike the cart, a failed save is
// returned to the caller since the history is re-read from the port on every call.
type History struct {
	mu   sync.Mutex
	port Port
}

func NewHistory(port Port) *History {
	return &History{port: port}
}

// Record moves term to the front, dropping an earlier copy and anything past MaxRecent.
// Blank input leaves the history untouched.
func (h *History) Record(ctx context.Context, term string) ([]string, error) {
	term = strings.TrimSpace(term)

	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.port.Load(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return current, nil
	}

	next := prepend(current, term)
	if err := h.port.Save(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save search history")
	}
	return next, nil
}

func (h *History) Terms(ctx context.Context) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.port.Load(ctx)
}

func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.port.Save(ctx, []string{}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear search history")
	}
	return nil
}

func prepend(terms []string, term string) []string {
	next := make([]string, 0, MaxRecent)
	next = append(next, term)
	for _, t := range terms {
		if len(next) == MaxRecent {
			break
		}
		if t == term || slices.Contains(next, t) {
			continue
		}
		next = append(next, t)
	}
	return next
}
