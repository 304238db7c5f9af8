package solana

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/AlexZinkM/phantom-waitlist/internal/crypto"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// Phantom's code for a request the user declined.
const userRejectedCode = "4001"

// SimulatedWallet plays the wallet application side of a connect deep link:
// it answers a connect URL with the redirect Phantom would produce.
type SimulatedWallet struct {
	wallet  *solana.Wallet
	keys    *crypto.KeyPair
	session string
}

// NewSimulatedWallet generates a Solana wallet and a box keypair.
func NewSimulatedWallet() (*SimulatedWallet, error) {
	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &SimulatedWallet{
		wallet:  solana.NewWallet(),
		keys:    keys,
		session: uuid.NewString(),
	}, nil
}

// Address returns the wallet's base-58 public key.
func (w *SimulatedWallet) Address() string {
	return w.wallet.PublicKey().String()
}

// EncryptionPublicKey returns the wallet's base58 box public key.
func (w *SimulatedWallet) EncryptionPublicKey() string {
	return w.keys.PublicKeyBase58()
}

// Approve answers connectURL with an encrypted connect payload.
func (w *SimulatedWallet) Approve(connectURL string) (string, error) {
	payload, err := json.Marshal(model.ConnectPayload{
		PublicKey: w.Address(),
		Session:   w.session,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal connect payload: %w", err)
	}
	return w.Respond(connectURL, payload)
}

// Respond answers connectURL with an arbitrary encrypted payload.
func (w *SimulatedWallet) Respond(connectURL string, payload []byte) (string, error) {
	dappKey, redirect, err := parseConnectURL(connectURL)
	if err != nil {
		return "", err
	}

	peer, err := crypto.ParseKey(dappKey)
	if err != nil {
		return "", err
	}

	nonce, data, err := crypto.SealEncoded(w.keys.SecretKey, peer, payload)
	if err != nil {
		return "", fmt.Errorf("failed to seal connect payload: %w", err)
	}

	q := redirect.Query()
	q.Set(ParamPhantomPublicKey, w.EncryptionPublicKey())
	q.Set(ParamNonce, nonce)
	q.Set(ParamData, data)
	redirect.RawQuery = q.Encode()
	return redirect.String(), nil
}

// Reject answers connectURL the way Phantom reports a declined request.
func (w *SimulatedWallet) Reject(connectURL string) (string, error) {
	_, redirect, err := parseConnectURL(connectURL)
	if err != nil {
		return "", err
	}

	q := redirect.Query()
	q.Set(ParamErrorCode, userRejectedCode)
	q.Set(ParamErrorMessage, "User rejected the request.")
	redirect.RawQuery = q.Encode()
	return redirect.String(), nil
}

func parseConnectURL(connectURL string) (string, *url.URL, error) {
	u, err := url.Parse(connectURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid connect URL: %w", err)
	}

	q := u.Query()
	dappKey := q.Get("dapp_encryption_public_key")
	if dappKey == "" {
		return "", nil, fmt.Errorf("connect URL has no dapp_encryption_public_key")
	}

	redirect, err := url.Parse(q.Get("redirect_link"))
	if err != nil || redirect.Scheme == "" {
		return "", nil, fmt.Errorf("connect URL has no valid redirect_link")
	}
	return dappKey, redirect, nil
}
