package inquiries

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/validation"
)

const DefaultDelay = time.Second

// ContactForm is the storefront contact page form.
type ContactForm struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"receivedAt"`
}

const (
	StatusReceived   = "received"
	StatusSubscribed = "subscribed"
)

type emailFingerprinter interface {
	Email(email string) string
}

// Service accepts contact messages and newsletter sign-ups. Nothing is stored; accepted
// submissions are logged with a fingerprint of the sender's address.
type Service interface {
	Contact(ctx context.Context, form ContactForm) (Receipt, error)
	Subscribe(ctx context.Context, email string) (Receipt, error)
}

type ServiceParams struct {
	Delay       time.Duration
	Logger      *logger.Logger
	Fingerprint emailFingerprinter
	Sleep       func(time.Duration)
	Now         func() time.Time
}

type service struct {
	delay       time.Duration
	logg        *logger.Logger
	fingerprint emailFingerprinter
	sleep       func(time.Duration)
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Fingerprint == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email fingerprinter is required")
	}
	svc := &service{
		delay:       max(params.Delay, 0),
		logg:        params.Logger,
		fingerprint: params.Fingerprint,
		sleep:       params.Sleep,
		now:         params.Now,
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

func (s *service) Contact(ctx context.Context, form ContactForm) (Receipt, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)
	if err := validation.Struct(&form); err != nil {
		return Receipt{}, err
	}

	s.sleep(s.delay)

	ctx = s.logg.WithFields(context.WithoutCancel(ctx), map[string]any{
		"email_fp":       s.fingerprint.Email(form.Email),
		"message_length": len(form.Message),
	})
	s.logg.Info(ctx, "inquiries.contact_received")
	return Receipt{Status: StatusReceived, ReceivedAt: s.now().UTC()}, nil
}

func (s *service) Subscribe(ctx context.Context, email string) (Receipt, error) {
	email = strings.TrimSpace(email)
	if err := validation.Var("email", email, "required,email,max=254"); err != nil {
		return Receipt{}, err
	}

	s.sleep(s.delay)

	ctx = s.logg.WithEmailFingerprint(context.WithoutCancel(ctx), s.fingerprint.Email(email))
	s.logg.Info(ctx, "inquiries.newsletter_subscribed")
	return Receipt{Status: StatusSubscribed, ReceivedAt: s.now().UTC()}, nil
}
