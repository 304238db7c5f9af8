// Package store holds the persistence backends: whitelist records (memory, GORM,
// MongoDB) and the short-lived deep-link flow key-value store (memory, GORM).
package store

import "errors"

// ErrDuplicateHandle is returned by Insert when a record with the same handle exists.
var ErrDuplicateHandle = errors.New("handle already registered")
