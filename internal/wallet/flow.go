package wallet

import (
	"encoding/json"
	"time"
)

// Strategy is how an address was (or is being) obtained.
type Strategy int

const (
	StrategyInjected Strategy = iota
	StrategyDeepLink
)

func (s Strategy) String() string {
	switch s {
	case StrategyInjected:
		return "injected"
	case StrategyDeepLink:
		return "deeplink"
	default:
		return "unknown"
	}
}

// FlowState is the position of a connection attempt in its two-phase protocol.
type FlowState int

const (
	FlowNotStarted FlowState = iota
	FlowAwaitingRedirect
	FlowCompleted
	FlowFailed
)

func (s FlowState) String() string {
	switch s {
	case FlowNotStarted:
		return "not_started"
	case FlowAwaitingRedirect:
		return "awaiting_redirect"
	case FlowCompleted:
		return "completed"
	case FlowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow is the persisted state of one deep-link attempt.
type Flow struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	State     FlowState `json:"state"`
	PublicKey string    `json:"publicKey"`
	SecretKey string    `json:"secretKey,omitempty"` // cleared once the flow finishes
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Flow) finish(state FlowState, address string) {
	f.State = state
	f.Address = address
	f.SecretKey = ""
}

func decodeFlow(raw []byte) (*Flow, error) {
	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Environment is what the caller knows about the connecting browser.
type Environment struct {
	Provider  WalletProvider // nil when no extension is injected
	Mobile    bool
	SessionID string
	Silent    bool
}

// Result is the uniform outcome of Connect, StartDeepLink and HandleCallback.
type Result struct {
	Strategy    Strategy
	State       FlowState
	Address     string
	FlowID      string
	SessionID   string
	RedirectURL string
}
