package main

import (
	"fmt"
	"log"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the kv_store table and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		dbConfig := config.LoadDBConfig()
		if dbConfig.Driver != config.StorageDriverPostgres {
			return fmt.Errorf("migrate needs STORAGE_DRIVER=%s, got %q", config.StorageDriverPostgres, dbConfig.Driver)
		}
		db, err := ConnectDB(dbConfig, config.LoadAppConfig())
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		log.Println("Migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
