package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderdesk/backoffice/config"
	"github.com/orderdesk/backoffice/database/seeders"
	"github.com/orderdesk/backoffice/pkg/database"
	"github.com/orderdesk/backoffice/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// backoffice db:migrate
var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations...")
		return migration.New(database.DB).Run()
	},
}

// backoffice db:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "db:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch...")
		return migration.New(database.DB).Rollback()
	},
}

// backoffice db:status
var migrateStatusCmd = &cobra.Command{
	Use:   "db:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// backoffice db:seed
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders...")
		return seeders.RunAll(database.DB)
	},
}
