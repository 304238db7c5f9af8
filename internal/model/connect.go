package model

// ConnectRequest represents request for POST /api/connect.
// The page fills it after probing window.solana.
type ConnectRequest struct {
	HasProvider bool   `json:"hasProvider"`
	PublicKey   string `json:"publicKey,omitempty"`
	Rejected    bool   `json:"rejected,omitempty"`
	Silent      bool   `json:"silent,omitempty"`
}

// ConnectResponse represents response for POST /api/connect
type ConnectResponse struct {
	Strategy    string       `json:"strategy"`
	State       string       `json:"state"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
	Session     *SessionView `json:"session,omitempty"`
}

// QRConnectResponse represents response for POST /api/connect/qr
type QRConnectResponse struct {
	FlowID string `json:"flowId"`
	URL    string `json:"url"`
	QR     string `json:"qr"` // base64 PNG
}

// FlowResponse represents response for GET /api/connect/flows/{id}
type FlowResponse struct {
	FlowID        string `json:"flowId"`
	State         string `json:"state"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// ConnectPayload is the decrypted data of a Phantom connect callback.
type ConnectPayload struct {
	PublicKey string `json:"public_key"`
	Session   string `json:"session"`
}
