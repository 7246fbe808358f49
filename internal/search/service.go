package search

import (
	"context"
	"strings"
	"time"

	"github.com/zora-fashion/storefront/internal/catalog"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/storage"
)

type catalogSearcher interface {
	Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error)
}

// Service ties search submissions to the session's history.
type Service interface {
	Submit(ctx context.Context, sessionID, term string) (Result, error)
	History(ctx context.Context, sessionID string) ([]string, error)
	ClearHistory(ctx context.Context, sessionID string) error
}

// Result is what the search page renders after a submission.
type Result struct {
	Term     string            `json:"term"`
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	History  []string          `json:"history"`
}

type ServiceParams struct {
	Storage    storage.Store
	SessionTTL time.Duration
	Catalog    catalogSearcher
	Logger     *logger.Logger
}

type service struct {
	storage storage.Store
	ttl     time.Duration
	catalog catalogSearcher
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search storage is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		storage: params.Storage,
		ttl:     params.SessionTTL,
		catalog: params.Catalog,
		logg:    logg,
	}, nil
}

func (s *service) history(sessionID string) (*History, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return NewHistory(NewStoragePort(s.storage, sessionID, s.ttl)), nil
}

// Submit records the term and runs it against the catalog. A blank term returns the full
// catalog with the history unchanged.
func (s *service) Submit(ctx context.Context, sessionID, term string) (Result, error) {
	h, err := s.history(sessionID)
	if err != nil {
		return Result{}, err
	}
	term = strings.TrimSpace(term)
	terms, err := h.Record(ctx, term)
	if err != nil {
		return Result{}, err
	}
	products, err := s.catalog.Search(ctx, catalog.Query{Search: term})
	if err != nil {
		return Result{}, err
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"term": term, "results": len(products)}), "search.submitted")
	return Result{Term: term, Products: products, Total: len(products), History: terms}, nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]string, error) {
	h, err := s.history(sessionID)
	if err != nil {
		return nil, err
	}
	return h.Terms(ctx)
}

func (s *service) ClearHistory(ctx context.Context, sessionID string) error {
	h, err := s.history(sessionID)
	if err != nil {
		return err
	}
	return h.Clear(ctx)
}
