package crypto

import (
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/nacl/box"
)

// OpenPayload derives the shared secret from secret and peerPublic and opens ciphertext.
// Any authentication failure is reported as ErrDecryptionFailed.
func OpenPayload(secret, peerPublic *[keyLen]byte, nonce, ciphertext []byte) ([]byte, error) {
	n, err := toNonce(nonce)
	if err != nil {
		return nil, err
	}

	var shared [keyLen]byte
	box.Precompute(&shared, peerPublic, secret)
	defer clear(shared[:])

	plaintext, ok := box.OpenAfterPrecomputation(nil, ciphertext, n, &shared)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// OpenEncoded is OpenPayload for base58 peer key, nonce and ciphertext as they arrive
// in a deep-link callback.
func OpenEncoded(secret *[keyLen]byte, peerPublic, nonce, data string) ([]byte, error) {
	peer, err := ParseKey(peerPublic)
	if err != nil {
		return nil, err
	}

	rawNonce, err := base58.Decode(nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}

	ciphertext, err := base58.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext encoding", ErrDecryptionFailed)
	}

	return OpenPayload(secret, peer, rawNonce, ciphertext)
}

// SealEncoded is SealPayload returning base58 nonce and ciphertext.
func SealEncoded(secret, peerPublic *[keyLen]byte, plaintext []byte) (nonce, data string, err error) {
	rawNonce, err := NewNonce()
	if err != nil {
		return "", "", err
	}

	ciphertext, err := SealPayload(secret, peerPublic, rawNonce, plaintext)
	if err != nil {
		return "", "", err
	}

	return base58.Encode(rawNonce), base58.Encode(ciphertext), nil
}
