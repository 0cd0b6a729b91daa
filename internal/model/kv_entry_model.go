package model

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one row of the key-value table. Version increases on every
// write and backs compare-and-swap updates.
type KVEntry struct {
	Key       string         `gorm:"type:text;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	Version   int64          `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (e *KVEntry) TableName() string {
	return "kv_store"
}
