package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is a row of the deep-link flow table.
type kvEntry struct {
	Key       string    `gorm:"column:flow_key;primaryKey;size:191"`
	Value     []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index"`
}

func (kvEntry) TableName() string {
	return "connect_flows"
}

// OpenGorm connects to SQLite or Postgres and migrates the tables this service owns.
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&model.WhitelistRecord{}, &kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// GormRecords stores whitelist records in a SQL table with a unique handle index.
type GormRecords struct {
	db *gorm.DB
}

// NewGormRecords wraps a migrated database.
func NewGormRecords(db *gorm.DB) *GormRecords {
	return &GormRecords{db: db}
}

// Insert stores rec; the unique index on handle_key rejects duplicates.
func (g *GormRecords) Insert(ctx context.Context, rec *model.WhitelistRecord) error {
	rec.HandleKey = model.HandleKey(rec.Handle)
	err := g.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateHandle
	}
	return err
}

// HandleTaken reports whether a record with handle exists.
func (g *GormRecords) HandleTaken(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.WhitelistRecord{}).
		Where("handle_key = ?", model.HandleKey(handle)).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// GormKV is a wallet.KeyValueStore backed by the connect_flows table.
type GormKV struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormKV wraps a migrated database.
func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db, now: time.Now}
}

// Get returns the unexpired value under key, or wallet.ErrNotFound.
func (g *GormKV) Get(ctx context.Context, key string) ([]byte, error) {
	var e kvEntry
	err := g.db.WithContext(ctx).
		Where("flow_key = ? AND expires_at > ?", key, g.now().UTC()).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wallet.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

// Set upserts value under key; a non-positive ttl defaults to one day.
func (g *GormKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	e := kvEntry{Key: key, Value: value, ExpiresAt: g.now().UTC().Add(ttl)}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "flow_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
		}).
		Create(&e).Error
}

// Delete removes key.
func (g *GormKV) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("flow_key = ?", key).Delete(&kvEntry{}).Error
}

// PurgeExpired removes expired flows and returns how many were deleted.
func (g *GormKV) PurgeExpired(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at <= ?", g.now().UTC()).Delete(&kvEntry{})
	return res.RowsAffected, res.Error
}
