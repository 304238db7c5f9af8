package whitelist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlexZinkM/phantom-waitlist/internal/common"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/store"

	"github.com/rs/zerolog"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// RecordStore is the insert-only whitelist collection.
type RecordStore interface {
	Insert(ctx context.Context, rec *model.WhitelistRecord) error
	HandleTaken(ctx context.Context, handle string) (bool, error)
}

// Publisher announces successful signups.
type Publisher interface {
	PublishJoined(ctx context.Context, rec model.WhitelistRecord) error
}

// Eligibility decides whether a wallet may join. Failures that wrap
// ErrNotEligible are shown to the user.
type Eligibility interface {
	Check(ctx context.Context, walletAddress string) error
}

// Rules toggles the checks that differ between deployments.
type Rules struct {
	RequireDisplayName   bool
	EnforceHandlePattern bool
	CheckHandleTaken     bool
}

// Controller validates and persists whitelist submissions.
type Controller struct {
	store       RecordStore
	rules       Rules
	eligibility Eligibility
	publisher   Publisher
	now         func() time.Time
	log         zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithEligibility adds a wallet eligibility rule.
func WithEligibility(e Eligibility) Option {
	return func(c *Controller) { c.eligibility = e }
}

// WithPublisher announces successful signups through p.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a Controller writing to records.
func NewController(records RecordStore, rules Rules, opts ...Option) *Controller {
	c := &Controller{
		store: records,
		rules: rules,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates the session's form and inserts one record.
//
// Precondition failures return a *ValidationError without touching the store and
// leave the session Idle. Store failures leave it Failed with the fields kept.
// On success the session is Succeeded and its fields are cleared.
func (c *Controller) Submit(ctx context.Context, s *Session) (*model.WhitelistRecord, error) {
	s.mu.Lock()
	switch s.status {
	case StatusSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StatusSucceeded:
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	s.validationError = ""
	rec, verr := c.validate(s.snapshotLocked())
	if verr != nil {
		s.validationError = verr.Message
		s.status = StatusIdle
		s.failureReason = ""
		s.mu.Unlock()
		return nil, verr
	}
	s.status = StatusSubmitting
	s.failureReason = ""
	s.mu.Unlock()

	logger := c.log.With().Str("wallet", rec.WalletAddress).Str("handle", rec.Handle).Logger()

	if c.eligibility != nil {
		if err := c.eligibility.Check(ctx, rec.WalletAddress); err != nil {
			if errors.Is(err, ErrNotEligible) {
				logger.Info().Err(err).Msg("wallet not eligible")
				s.reject(err.Error())
				return nil, err
			}
			logger.Error().Err(err).Msg("eligibility check failed")
			s.fail("Could not verify your wallet. Please try again.")
			return nil, fmt.Errorf("eligibility check: %w", err)
		}
	}

	if c.rules.CheckHandleTaken {
		taken, err := c.store.HandleTaken(ctx, rec.Handle)
		if err != nil {
			logger.Error().Err(err).Msg("handle lookup failed")
			s.fail("Submission failed.")
			return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
		}
		if taken {
			s.reject(ErrHandleAlreadyTaken.Error())
			return nil, ErrHandleAlreadyTaken
		}
	}

	rec.SubmittedAt = c.now().UTC()
	rec.Timestamp = rec.SubmittedAt.Format(model.ISO8601Millis)

	if err := c.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicateHandle) {
			s.reject(ErrHandleAlreadyTaken.Error())
			return nil, ErrHandleAlreadyTaken
		}
		logger.Error().Err(err).Msg("whitelist insert failed")
		s.fail("Submission failed.")
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	s.status = StatusSucceeded
	s.fields = Fields{}
	s.mu.Unlock()

	logger.Info().Msg("joined whitelist")

	if c.publisher != nil {
		if err := c.publisher.PublishJoined(ctx, *rec); err != nil {
			logger.Warn().Err(err).Msg("failed to publish joined event")
		}
	}
	return rec, nil
}

func (c *Controller) validate(snap Snapshot) (*model.WhitelistRecord, *ValidationError) {
	if snap.WalletAddress == "" {
		return nil, &ValidationError{Field: "walletAddress", Message: "Please connect your wallet first."}
	}

	handle := common.NormalizeHandle(snap.Fields.Handle)
	if handle == "" {
		return nil, &ValidationError{Field: "handle", Message: "Please enter your X username."}
	}

	if utf8.RuneCountInString(handle) > model.MaxHandleLen {
		return nil, &ValidationError{Field: "handle", Message: fmt.Sprintf("X usernames are at most %d characters.", model.MaxHandleLen)}
	}

	name := strings.TrimSpace(snap.Fields.DisplayName)
	if c.rules.RequireDisplayName && name == "" {
		return nil, &ValidationError{Field: "displayName", Message: "Please enter your name."}
	}
	if utf8.RuneCountInString(name) > model.MaxDisplayNameLen {
		return nil, &ValidationError{Field: "displayName", Message: fmt.Sprintf("Names are at most %d characters.", model.MaxDisplayNameLen)}
	}

	if c.rules.EnforceHandlePattern && !handlePattern.MatchString(handle) {
		return nil, &ValidationError{Field: "handle", Message: "X usernames are 1-15 letters, numbers or underscores."}
	}

	rec := model.NewWhitelistRecord(snap.WalletAddress, handle, name, time.Time{})
	return &rec, nil
}

// reject returns the session to Idle with a user-facing validation message.
func (s *Session) reject(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusIdle
	s.validationError = msg
}

// fail marks the session Failed; fields are kept for a retry.
func (s *Session) fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.failureReason = reason
}
