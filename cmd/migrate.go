package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/expense-tracker/db"
	"github.com/frahmantamala/expense-tracker/internal"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory (defaults to the embedded migrations of the configured driver)")
}

// gooseDriver maps a storage driver to its goose dialect and database/sql driver name.
func gooseDriver(driver string) (dialect, sqlDriver string, err error) {
	switch driver {
	case internal.DriverPostgres:
		return "postgres", "pgx", nil
	case internal.DriverMySQL:
		return "mysql", "mysql", nil
	case internal.DriverSQLite:
		return "sqlite3", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("driver %q has no migrations", driver)
	}
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	dialect, sqlDriver, err := gooseDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}

	sqlDB, err := goose.OpenDBWithDriver(sqlDriver, cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetTableName("schema_migrations")

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir(dialect)
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := goose.RunContext(ctx, command, sqlDB, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
