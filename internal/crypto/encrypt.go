package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	keyLen   = 32
	nonceLen = 24
)

var (
	// ErrDecryptionFailed is returned when a payload cannot be authenticated with the given keys.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrInvalidKey is returned for keys that are not 32 bytes of base58.
	ErrInvalidKey = errors.New("invalid box key")
	// ErrInvalidNonce is returned for nonces that are not 24 bytes.
	ErrInvalidNonce = errors.New("invalid box nonce")
)

// KeyPair is an X25519 keypair for NaCl box.
type KeyPair struct {
	PublicKey *[keyLen]byte
	SecretKey *[keyLen]byte
}

// GenerateKeyPair creates a fresh keypair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate box keypair: %w", err)
	}
	return &KeyPair{PublicKey: pub, SecretKey: sec}, nil
}

// KeyPairFromSecret rebuilds a keypair from a base58 secret key.
func KeyPairFromSecret(secret string) (*KeyPair, error) {
	sec, err := ParseKey(secret)
	if err != nil {
		return nil, err
	}
	raw, err := curve25519.X25519(sec[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var pub [keyLen]byte
	copy(pub[:], raw)
	return &KeyPair{PublicKey: &pub, SecretKey: sec}, nil
}

// PublicKeyBase58 encodes the public half the way Phantom expects it.
func (k *KeyPair) PublicKeyBase58() string {
	return base58.Encode(k.PublicKey[:])
}

// SecretKeyBase58 encodes the secret half for persistence.
func (k *KeyPair) SecretKeyBase58() string {
	return base58.Encode(k.SecretKey[:])
}

// Wipe zeroes the secret key.
func Wipe(k *KeyPair) {
	if k == nil || k.SecretKey == nil {
		return
	}
	clear(k.SecretKey[:])
}

// ParseKey decodes a base58 32-byte box key.
func ParseKey(s string) (*[keyLen]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != keyLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(raw))
	}
	var key [keyLen]byte
	copy(key[:], raw)
	clear(raw)
	return &key, nil
}

// NewNonce returns a random 24-byte nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// SealPayload encrypts plaintext from secret to peerPublic over a shared secret.
func SealPayload(secret, peerPublic *[keyLen]byte, nonce, plaintext []byte) ([]byte, error) {
	n, err := toNonce(nonce)
	if err != nil {
		return nil, err
	}

	var shared [keyLen]byte
	box.Precompute(&shared, peerPublic, secret)
	defer clear(shared[:])

	return box.SealAfterPrecomputation(nil, plaintext, n, &shared), nil
}

func toNonce(nonce []byte) (*[nonceLen]byte, error) {
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidNonce, len(nonce))
	}
	var n [nonceLen]byte
	copy(n[:], nonce)
	return &n, nil
}
