package db

import (
	"database/sql"
	"fmt"
	"time"

	"bizadmin/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open wraps an already connected pool with GORM for the configured dialect.
func Open(cfg config.DatabaseConfig, sqlDB *sql.DB, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	case config.DriverMySQL, "":
		dialector = mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 NewGormLogger(log, 200*time.Millisecond),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db: gorm open: %w", err)
	}
	return gdb, nil
}
