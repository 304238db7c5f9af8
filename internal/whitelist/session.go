package whitelist

import "sync"

// Status is the state of the session's submission.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Screen is the single view the page shows for a session.
type Screen string

const (
	ScreenConnect Screen = "connect"
	ScreenForm    Screen = "form"
	ScreenSuccess Screen = "success"
)

// Fields are the form inputs.
type Fields struct {
	DisplayName string
	Handle      string
}

// Snapshot is a consistent copy of a Session.
type Snapshot struct {
	WalletAddress   string
	Fields          Fields
	Status          Status
	FailureReason   string
	ValidationError string
	Notice          string
}

// Screen derives the visible screen from the address and status.
func (s Snapshot) Screen() Screen {
	switch {
	case s.Status == StatusSucceeded:
		return ScreenSuccess
	case s.WalletAddress == "":
		return ScreenConnect
	default:
		return ScreenForm
	}
}

// Session is the transient state of one page instance. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	walletAddress   string
	fields          Fields
	status          Status
	failureReason   string
	validationError string
	notice          string
}

// NewSession returns an idle session with no wallet.
func NewSession() *Session {
	return &Session{}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		WalletAddress:   s.walletAddress,
		Fields:          s.fields,
		Status:          s.status,
		FailureReason:   s.failureReason,
		ValidationError: s.validationError,
		Notice:          s.notice,
	}
}

// Screen is Snapshot().Screen().
func (s *Session) Screen() Screen {
	return s.Snapshot().Screen()
}

// SetWalletAddress records the connected wallet. A different wallet resets the
// submission state.
func (s *Session) SetWalletAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.walletAddress != address && s.status != StatusSubmitting {
		s.status = StatusIdle
		s.failureReason = ""
	}
	s.walletAddress = address
}

// SetFields replaces the form inputs.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// SetNotice stores a one-shot message for the next render.
func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

// TakeNotice returns and clears the pending notice.
func (s *Session) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}
