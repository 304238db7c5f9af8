package wallet

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
)

// ConnectOptions mirrors the options of the injected provider's connect call.
type ConnectOptions struct {
	// OnlyIfTrusted connects silently when the site is already approved.
	OnlyIfTrusted bool
}

// WalletProvider is an injected wallet capable of a direct connect.
type WalletProvider interface {
	Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error)
}

// KeyValueStore persists deep-link flows across the redirect round trip.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReportedProvider is the provider as seen from the server: the page calls the
// extension and reports either the public key or a rejection.
type ReportedProvider struct {
	PublicKey string
	Rejected  bool
}

// Connect returns the reported public key.
func (p ReportedProvider) Connect(_ context.Context, _ ConnectOptions) (solana.PublicKey, error) {
	if p.Rejected {
		return solana.PublicKey{}, ErrUserRejectedConnect
	}
	return solana.PublicKeyFromBase58(p.PublicKey)
}
