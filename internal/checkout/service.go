package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zora-fashion/storefront/internal/cart"
	"github.com/zora-fashion/storefront/pkg/enums"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/money"
	"github.com/zora-fashion/storefront/pkg/validation"
)

// DefaultDelay mirrors the storefront's simulated order submission.
const DefaultDelay = 1500 * time.Millisecond

type cartSession interface {
	Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) (cart.View, error)
}

// MetricsRecorder receives placed orders.
type MetricsRecorder interface {
	IncOrderPlaced()
}

// Service places orders for the session's cart.
type Service interface {
	Submit(ctx context.Context, sessionID string, form Form) (Order, error)
}

// Form is the shipping and payment form.
type Form struct {
	Name          string              `json:"name" validate:"required,max=120"`
	Email         string              `json:"email" validate:"required,email,max=254"`
	Phone         string              `json:"phone" validate:"required,min=6,max=20"`
	Address       string              `json:"address" validate:"required,max=500"`
	City          string              `json:"city" validate:"required,max=80"`
	PostalCode    string              `json:"postalCode" validate:"required,numeric,max=10"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod" validate:"payment_method"`
}

func (f Form) normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	if f.PaymentMethod == "" {
		f.PaymentMethod = enums.DefaultPaymentMethod
	}
	return f
}

// Order is the confirmation returned after a successful submission. Shipping is settled at
// a later step, so Total equals Subtotal.
type Order struct {
	ID             uuid.UUID           `json:"id"`
	Lines          cart.Snapshot       `json:"items"`
	Subtotal       int64               `json:"subtotal"`
	Total          int64               `json:"total"`
	FormattedTotal string              `json:"formattedTotal"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod"`
	PlacedAt       time.Time           `json:"placedAt"`
}

type ServiceParams struct {
	Cart    cartSession
	Delay   time.Duration
	Logger  *logger.Logger
	Metrics MetricsRecorder
	// Sleep replaces time.Sleep, mainly for tests.
	Sleep func(time.Duration)
	Now   func() time.Time
}

type service struct {
	cart    cartSession
	delay   time.Duration
	logg    *logger.Logger
	metrics MetricsRecorder
	sleep   func(time.Duration)
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	svc := &service{
		cart:    params.Cart,
		delay:   params.Delay,
		logg:    params.Logger,
		metrics: params.Metrics,
		sleep:   params.Sleep,
		now:     params.Now,
	}
	if svc.delay < 0 {
		svc.delay = 0
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.sleep == nil {
		svc.sleep = time.Sleep
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Submit validates the form, waits out the processing delay, then clears the cart. The delay
// is not cut short by request cancellation, so an accepted order always completes.
func (s *service) Submit(ctx context.Context, sessionID string, form Form) (Order, error) {
	form = form.normalized()
	if err := validation.Struct(&form); err != nil {
		return Order{}, err
	}

	lines, err := s.cart.Snapshot(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	s.sleep(s.delay)

	ctx = context.WithoutCancel(ctx)
	if _, err := s.cart.Clear(ctx, sessionID); err != nil {
		return Order{}, err
	}

	subtotal := lines.Total()
	order := Order{
		ID:             uuid.New(),
		Lines:          lines,
		Subtotal:       subtotal,
		Total:          subtotal,
		FormattedTotal: money.Format(subtotal),
		PaymentMethod:  form.PaymentMethod,
		PlacedAt:       s.now().UTC(),
	}
	if s.metrics != nil {
		s.metrics.IncOrderPlaced()
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID.String(),
		"payment_method": order.PaymentMethod.String(),
		"items":          lines.Count(),
		"total":          order.Total,
	})
	s.logg.Info(ctx, "checkout.order_placed")
	return order, nil
}
