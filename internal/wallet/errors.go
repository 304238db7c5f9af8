package wallet

import "errors"

var (
	// ErrProviderUnavailable means no injected provider and no way to deep link.
	ErrProviderUnavailable = errors.New("phantom wallet not found: install the extension or open this page on your phone")
	// ErrUserRejectedConnect means the wallet declined the connection.
	ErrUserRejectedConnect = errors.New("failed to connect to Phantom")
	// ErrCallbackMalformed means the callback lacks a required parameter.
	ErrCallbackMalformed = errors.New("missing wallet response parameters")
	// ErrDecryptionFailed means the callback payload could not be opened or parsed.
	ErrDecryptionFailed = errors.New("could not decrypt wallet response")
	// ErrFlowNotFound means the deep-link flow expired, was replaced or already finished.
	ErrFlowNotFound = errors.New("connection attempt expired, please connect again")
	// ErrNotFound is returned by KeyValueStore implementations for missing keys.
	ErrNotFound = errors.New("key not found")
)
