package solana

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParseAddress parses a base-58 Solana public key.
func ParseAddress(address string) (solana.PublicKey, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return solana.PublicKey{}, fmt.Errorf("empty Solana address")
	}
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address: %w", err)
	}
	return pk, nil
}

// IsValidAddress reports whether address is a base-58 Solana public key
func IsValidAddress(address string) bool {
	_, err := ParseAddress(address)
	return err == nil
}
