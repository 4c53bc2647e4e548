package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Backend is the storage instance selected at startup. DB is nil for the
// in-memory driver.
type Backend struct {
	Driver     string
	Repository expense.Repository
	DB         *sql.DB
}

// Open builds the backend named by cfg.Driver.
func Open(cfg internal.DatabaseConfig, logger *slog.Logger) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Driver == internal.DriverMemory {
		logger.Info("using in-memory expense storage")
		return &Backend{
			Driver:     internal.DriverMemory,
			Repository: memory.NewExpenseRepository(),
		}, nil
	}

	gdb, err := OpenGorm(cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.AutoMigrate {
		if err := gdb.AutoMigrate(&expenseDatamodel.Expense{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	logger.Info("using relational expense storage", "driver", cfg.Driver)
	return &Backend{
		Driver:     cfg.Driver,
		Repository: expensePostgres.NewExpenseRepository(gdb),
		DB:         sqlDB,
	}, nil
}

// OpenGorm connects GORM to the configured SQL database and applies pool settings.
func OpenGorm(cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: NewGormLogger(logger)}

	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.Driver {
	case internal.DriverPostgres:
		var conn *sqlx.DB
		conn, err = sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
		gdb, err = gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), gormCfg)
	case internal.DriverMySQL:
		gdb, err = gorm.Open(mysql.Open(cfg.Source), gormCfg)
	case internal.DriverSQLite:
		gdb, err = gorm.Open(sqlite.Open(cfg.Source), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg)

	ctx, cancel := internal.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gdb, nil
}

func configurePool(db *sql.DB, cfg internal.DatabaseConfig) {
	if cfg.Driver == internal.DriverSQLite && isSQLiteMemory(cfg.Source) {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func isSQLiteMemory(source string) bool {
	return strings.Contains(source, ":memory:") || strings.Contains(source, "mode=memory")
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// IsPersistent reports whether writes outlive the process.
func (b *Backend) IsPersistent() bool {
	return b.DB != nil
}

// PingContext reports whether the backend is reachable. The memory backend always is.
func (b *Backend) PingContext(ctx context.Context) error {
	if b.DB == nil {
		return nil
	}
	return b.DB.PingContext(ctx)
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

// NewGormLogger routes GORM warnings and slow queries into slog.
func NewGormLogger(logger *slog.Logger) gormLogger.Interface {
	return gormLogger.New(slogWriter{logger: logger}, gormLogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
