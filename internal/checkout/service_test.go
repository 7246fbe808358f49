package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zora-fashion/storefront/internal/cart"
	"github.com/zora-fashion/storefront/internal/catalog"
	"github.com/zora-fashion/storefront/pkg/enums"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

type stubCart struct {
	lines    cart.Snapshot
	snapErr  error
	cleared  int
	clearErr error
}

func (s *stubCart) Snapshot(context.Context, string) (cart.Snapshot, error) {
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.lines, nil
}

func (s *stubCart) Clear(context.Context, string) (cart.View, error) {
	if s.clearErr != nil {
		return cart.View{}, s.clearErr
	}
	s.cleared++
	s.lines = nil
	return cart.View{}, nil
}

type stubMetrics struct{ orders int }

func (m *stubMetrics) IncOrderPlaced() { m.orders++ }

func validForm() Form {
	return Form{
		Name:       "Sari Wulandari",
		Email:      "sari@example.com",
		Phone:      "081234567890",
		Address:    "Jl. Malioboro No. 12",
		City:       "Yogyakarta",
		PostalCode: "55213",
	}
}

func filledCart() *stubCart {
	return &stubCart{lines: cart.Snapshot{
		{Product: catalog.Product{ID: "1", Price: 625000}, SelectedSize: "M", Quantity: 2},
		{Product: catalog.Product{ID: "4", Price: 350000}, SelectedSize: "S", Quantity: 1},
	}}
}

func TestSubmitPlacesOrderAndClearsCart(t *testing.T) {
	carts := filledCart()
	metrics := &stubMetrics{}
	var slept time.Duration
	placedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	svc, err := NewService(ServiceParams{
		Cart:    carts,
		Delay:   DefaultDelay,
		Metrics: metrics,
		Sleep:   func(d time.Duration) { slept = d },
		Now:     func() time.Time { return placedAt },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	order, err := svc.Submit(context.Background(), "sess", validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if slept != DefaultDelay {
		t.Fatalf("expected %s delay, got %s", DefaultDelay, slept)
	}
	if carts.cleared != 1 {
		t.Fatalf("expected cart cleared once, got %d", carts.cleared)
	}
	if order.Subtotal != 1600000 || order.Total != order.Subtotal {
		t.Fatalf("unexpected totals %+v", order)
	}
	if order.FormattedTotal != "IDR 1.600.000" {
		t.Fatalf("unexpected formatted total %q", order.FormattedTotal)
	}
	if order.PaymentMethod != enums.PaymentMethodBankTransfer {
		t.Fatalf("expected default payment method, got %s", order.PaymentMethod)
	}
	if len(order.Lines) != 2 || !order.PlacedAt.Equal(placedAt) {
		t.Fatalf("unexpected order %+v", order)
	}
	if metrics.orders != 1 {
		t.Fatalf("expected order metric, got %d", metrics.orders)
	}
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	carts := filledCart()
	svc, _ := NewService(ServiceParams{Cart: carts, Sleep: func(time.Duration) {}})

	form := validForm()
	form.Email = "not-an-email"
	form.PaymentMethod = "cash"
	_, err := svc.Submit(context.Background(), "sess", form)

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["email"] == "" || details["paymentMethod"] == "" {
		t.Fatalf("expected field details, got %v", details)
	}
	if carts.cleared != 0 {
		t.Fatalf("invalid form must not clear the cart")
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	slept := false
	svc, _ := NewService(ServiceParams{Cart: &stubCart{}, Sleep: func(time.Duration) { slept = true }})

	_, err := svc.Submit(context.Background(), "sess", validForm())
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if slept {
		t.Fatalf("empty cart should fail before the processing delay")
	}
}

func TestSubmitCompletesAfterCancellation(t *testing.T) {
	carts := filledCart()
	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := NewService(ServiceParams{Cart: carts, Sleep: func(time.Duration) { cancel() }})

	if _, err := svc.Submit(ctx, "sess", validForm()); err != nil {
		t.Fatalf("expected order to complete, got %v", err)
	}
	if carts.cleared != 1 {
		t.Fatalf("expected cart cleared")
	}
}

func TestSubmitPropagatesCartFailures(t *testing.T) {
	dependency := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "load cart snapshot")
	svc, _ := NewService(ServiceParams{Cart: &stubCart{snapErr: dependency}, Sleep: func(time.Duration) {}})

	if _, err := svc.Submit(context.Background(), "sess", validForm()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
