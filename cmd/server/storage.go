package main

import (
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewKVStore opens the configured storage backend.
func NewKVStore(dbConfig *config.DBConfig, appConfig *config.AppConfig) (repository.KVStore, error) {
	switch dbConfig.Driver {
	case config.StorageDriverMemory:
		log.Println("Using in-memory storage, data will not survive a restart")
		return repository.NewMemoryKVStore(), nil
	case config.StorageDriverPostgres:
		db, err := ConnectDB(dbConfig, appConfig)
		if err != nil {
			return nil, err
		}
		return repository.NewGormKVStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", dbConfig.Driver)
	}
}

// ConnectDB opens Postgres, sizes the pool for the environment and migrates kv_store.
func ConnectDB(dbConfig *config.DBConfig, appConfig *config.AppConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
