package model

// SessionView represents response for GET /api/session
type SessionView struct {
	Screen          string `json:"screen"`
	WalletAddress   string `json:"walletAddress,omitempty"`
	ShortAddress    string `json:"shortAddress,omitempty"`
	Status          string `json:"status"`
	FailureReason   string `json:"failureReason,omitempty"`
	ValidationError string `json:"validationError,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	Handle          string `json:"handle,omitempty"`
	Notice          string `json:"notice,omitempty"`
}

// WhitelistRequest represents request for POST /api/whitelist
type WhitelistRequest struct {
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
}

// WhitelistResponse represents response for POST /api/whitelist
type WhitelistResponse struct {
	Record  WhitelistRecord `json:"record"`
	Session SessionView     `json:"session"`
}
