package model

import (
	"strings"
	"time"
)

// Column limits; validation rejects longer values before they reach a store.
const (
	MaxHandleLen      = 32
	MaxDisplayNameLen = 128
)

// WhitelistRecord is one waitlist signup. Records are insert-only.
type WhitelistRecord struct {
	ID            uint      `json:"-" bson:"-" gorm:"primaryKey"`
	WalletAddress string    `json:"walletAddress" bson:"walletAddress" gorm:"size:64;not null;index"`
	Handle        string    `json:"xUsername" bson:"xUsername" gorm:"size:32;not null"`
	HandleKey     string    `json:"-" bson:"handleKey" gorm:"size:32;not null;uniqueIndex"` // lower-cased Handle
	DisplayName   string    `json:"name,omitempty" bson:"name,omitempty" gorm:"size:128"`
	SubmittedAt   time.Time `json:"-" bson:"-" gorm:"not null"`
	Timestamp     string    `json:"timestamp" bson:"timestamp" gorm:"-"`
}

// TableName pins the SQL table to the collection name used by the document store.
func (WhitelistRecord) TableName() string {
	return "whitelist_users"
}

// NewWhitelistRecord builds a record stamped with submittedAt in UTC.
func NewWhitelistRecord(walletAddress, handle, displayName string, submittedAt time.Time) WhitelistRecord {
	submittedAt = submittedAt.UTC()
	return WhitelistRecord{
		WalletAddress: walletAddress,
		Handle:        handle,
		HandleKey:     HandleKey(handle),
		DisplayName:   displayName,
		SubmittedAt:   submittedAt,
		Timestamp:     submittedAt.Format(ISO8601Millis),
	}
}

// ISO8601Millis matches JavaScript's Date.prototype.toISOString.
const ISO8601Millis = "2006-01-02T15:04:05.000Z07:00"

// HandleKey is the case-insensitive form handles are compared by.
func HandleKey(handle string) string {
	return strings.ToLower(handle)
}
