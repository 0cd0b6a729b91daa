package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore is the persistence contract every service writes through.
// Get returns nil, nil for an absent key. GetByPrefix makes no ordering promise.
type KVStore interface {
	Get(ctx context.Context, key string) (*model.KVEntry, error)
	Set(ctx context.Context, key string, value []byte) error
	GetByPrefix(ctx context.Context, prefix string) ([]model.KVEntry, error)
	// CompareAndSwap writes value only while the stored version still equals version.
	CompareAndSwap(ctx context.Context, key string, version int64, value []byte) (bool, error)
}

// FieldFinder is implemented by stores that can filter on a top-level JSON
// field of the stored value without a full prefix scan.
type FieldFinder interface {
	FindByField(ctx context.Context, prefix, field, value string) ([]model.KVEntry, error)
}

type GormKVStore struct {
	db *gorm.DB
}

func NewGormKVStore(db *gorm.DB) *GormKVStore {
	return &GormKVStore{db}
}

func (r *GormKVStore) Get(ctx context.Context, key string) (*model.KVEntry, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return &entry, nil
}

func (r *GormKVStore) Set(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	entry := model.KVEntry{
		Key:       key,
		Value:     datatypes.JSON(value),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      datatypes.JSON(value),
			"version":    gorm.Expr("kv_store.version + 1"),
			"updated_at": now,
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (r *GormKVStore) GetByPrefix(ctx context.Context, prefix string) ([]model.KVEntry, error) {
	var entries []model.KVEntry
	err := r.db.WithContext(ctx).
		Where("key LIKE ?", escapeLike(prefix)+"%").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("kv prefix scan %q: %w", prefix, err)
	}
	return entries, nil
}

func (r *GormKVStore) CompareAndSwap(ctx context.Context, key string, version int64, value []byte) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.KVEntry{}).
		Where("key = ? AND version = ?", key, version).
		Updates(map[string]any{
			"value":      datatypes.JSON(value),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("kv compare-and-swap %q: %w", key, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormKVStore) FindByField(ctx context.Context, prefix, field, value string) ([]model.KVEntry, error) {
	var entries []model.KVEntry
	err := r.db.WithContext(ctx).
		Where("key LIKE ? AND value->>? = ?", escapeLike(prefix)+"%", field, value).
		Order("key DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("kv find %s=%q: %w", field, value, err)
	}
	return entries, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
