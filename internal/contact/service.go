package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/store"
)

// Inquiries persists accepted submissions.
type Inquiries interface {
	CreateInquiry(ctx context.Context, in store.Inquiry) error
}

// Notifier tells the site owner about a new inquiry.
type Notifier interface {
	Notify(ctx context.Context, in store.Inquiry) error
}

// Meta describes who sent a submission. ClientKey identifies the sender
// for duplicate-submit protection; it should already be anonymised.
type Meta struct {
	ClientKey string
	UserAgent string
}

// Service accepts contact form submissions. A client that has just
// submitted is held in the submitted state for the reset delay, mirroring
// what the browser shows, and further submissions are refused until the
// form has reset.
type Service struct {
	inquiries Inquiries
	notifier  Notifier
	logger    *zap.Logger
	delay     time.Duration
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]*Lifecycle
}

type Option func(*Service)

// WithResetDelay overrides ResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a service. notifier may be nil.
func NewService(inquiries Inquiries, notifier Notifier, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		inquiries: inquiries,
		notifier:  notifier,
		logger:    logger,
		delay:     ResetDelay,
		now:       time.Now,
		pending:   make(map[string]*Lifecycle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResetDelay is the delay after which a client's form returns to input.
func (s *Service) ResetDelay() time.Duration {
	return s.delay
}

// Submit normalizes, validates and stores a submission, then notifies the
// owner. A failed notification is logged but the inquiry still stands.
func (s *Service) Submit(ctx context.Context, sub Submission, meta Meta) (store.Inquiry, error) {
	sub = Normalize(sub)
	if err := Validate(sub); err != nil {
		return store.Inquiry{}, err
	}

	lc, err := s.hold(meta.ClientKey, sub)
	if err != nil {
		return store.Inquiry{}, err
	}

	in := store.Inquiry{
		ID:          uuid.NewString(),
		Name:        sub.Name,
		Email:       sub.Email,
		ProjectType: sub.ProjectType,
		Message:     sub.Message,
		HashedIP:    meta.ClientKey,
		UserAgent:   meta.UserAgent,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.inquiries.CreateInquiry(ctx, in); err != nil {
		s.release(meta.ClientKey, lc)
		return store.Inquiry{}, fmt.Errorf("save inquiry: %w", err)
	}
	s.logger.Info("Inquiry received",
		zap.String("id", in.ID),
		zap.String("project_type", in.ProjectType),
	)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, in); err != nil {
			s.logger.Warn("Inquiry notification failed", zap.String("id", in.ID), zap.Error(err))
		}
	}
	return in, nil
}

// State reports the form state the given client should currently see.
func (s *Service) State(clientKey string) State {
	s.mu.Lock()
	lc, ok := s.pending[clientKey]
	s.mu.Unlock()
	if !ok {
		return StateInput
	}
	return lc.State()
}

func (s *Service) hold(key string, sub Submission) (*Lifecycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lc, ok := s.pending[key]; ok && lc.State() == StateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	var lc *Lifecycle
	lc = NewLifecycle(s.delay, func() {
		s.mu.Lock()
		if s.pending[key] == lc {
			delete(s.pending, key)
		}
		s.mu.Unlock()
	})
	if err := lc.Submit(sub); err != nil {
		return nil, err
	}
	s.pending[key] = lc
	return lc, nil
}

func (s *Service) release(key string, lc *Lifecycle) {
	lc.Close()
	s.mu.Lock()
	if s.pending[key] == lc {
		delete(s.pending, key)
	}
	s.mu.Unlock()
}

// Close cancels all pending resets.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, lc := range s.pending {
		lc.Close()
		delete(s.pending, key)
	}
}

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
