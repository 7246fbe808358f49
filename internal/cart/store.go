package cart

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/zora-fashion/storefront/internal/catalog"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
)

// MetricsRecorder receives cart activity.
type MetricsRecorder interface {
	IncCartOperation(op string)
	IncPersistFailure()
}

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
	opClear  = "clear"
)

// Store owns one session's cart. Every mutation swaps in a new line slice and writes the
// snapshot through to the port under the same lock. A failed write is logged and counted; the
// in-memory lines stay authoritative.
type Store struct {
	mu        sync.Mutex
	lines     Snapshot
	panelOpen bool

	port    Port
	logg    *logger.Logger
	metrics MetricsRecorder
}

type StoreParams struct {
	Port    Port
	Logger  *logger.Logger
	Metrics MetricsRecorder
}

// NewStore reads the persisted snapshot and returns a store mirroring it.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Port == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart port is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	snapshot, err := params.Port.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{
		lines:   snapshot.normalize(),
		port:    params.Port,
		logg:    logg,
		metrics: params.Metrics,
	}, nil
}

// Add merges quantity into the (product, size) line or appends a new line, then opens the
// cart panel. Quantities are clamped to [1, MaxQuantity], merges included. An empty size is rejected without
// touching the cart.
func (s *Store) Add(ctx context.Context, product catalog.Product, selectedSize string, quantity int) error {
	selectedSize = strings.TrimSpace(selectedSize)
	if selectedSize == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "please select a size").
			WithDetails(map[string]any{"field": "selectedSize", "productId": product.ID})
	}
	quantity = clampQuantity(quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.lines)
	idx := slices.IndexFunc(next, func(l Line) bool { return l.matches(product.ID, selectedSize) })
	if idx >= 0 {
		next[idx].Quantity = addQuantity(next[idx].Quantity, quantity)
	} else {
		next = append(next, Line{Product: product, SelectedSize: selectedSize, Quantity: quantity})
	}
	s.commit(ctx, opAdd, next)
	s.panelOpen = true
	return nil
}

// Remove drops the matching line. Missing lines are a no-op.
func (s *Store) Remove(ctx context.Context, productID, selectedSize string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.lines), func(l Line) bool {
		return l.matches(productID, selectedSize)
	})
	if len(next) == len(s.lines) {
		return
	}
	s.commit(ctx, opRemove, next)
}

// UpdateQuantity sets the matching line to n clamped to [1, MaxQuantity]. Missing lines are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, selectedSize string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.lines, func(l Line) bool { return l.matches(productID, selectedSize) })
	if idx < 0 {
		return
	}
	next := slices.Clone(s.lines)
	next[idx].Quantity = clampQuantity(n)
	s.commit(ctx, opUpdate, next)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, opClear, Snapshot{})
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Total()
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Count()
}

func (s *Store) IsPanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

func (s *Store) SetPanelOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelOpen = open
}

// View captures lines, aggregates, and the panel flag under a single lock.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newView(slices.Clone(s.lines), s.panelOpen)
}

// commit must be called with s.mu held.
func (s *Store) commit(ctx context.Context, op string, next Snapshot) {
	if next == nil {
		next = Snapshot{}
	}
	s.lines = next
	if s.metrics != nil {
		s.metrics.IncCartOperation(op)
	}
	if err := s.port.Save(ctx, next); err != nil {
		if s.metrics != nil {
			s.metrics.IncPersistFailure()
		}
		ctx = s.logg.WithFields(ctx, map[string]any{"cart_op": op, "error": err.Error()})
		s.logg.Warn(ctx, "cart.persist_failed")
	}
}
