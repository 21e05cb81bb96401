package gormkv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-thread/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvEntry struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// Store persists entries in a kv_entries table through gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db.Session(&gorm.Session{SkipDefaultTransaction: true})}
}

// Migrate creates the kv_entries table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&kvEntry{})
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return e.Value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	e := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	var rows []kvEntry
	err := s.db.WithContext(ctx).
		Where("key LIKE ?", likeEscape(prefix)+"%").
		Order("key").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	entries := make([]storage.Entry, len(rows))
	for i, r := range rows {
		entries[i] = storage.Entry{Key: r.Key, Value: r.Value}
	}
	return entries, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
