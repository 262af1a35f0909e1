package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	// mysql | postgres
	Driver string `yaml:"driver"`
	// DSN wins over the discrete fields below when set.
	DSN             string        `yaml:"dsn"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

func (d *DatabaseConfig) applyDefaults() {
	if d.Driver == "" {
		d.Driver = DriverMySQL
	}
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		if d.Driver == DriverPostgres {
			d.Port = 5432
		} else {
			d.Port = 3306
		}
	}
	if d.User == "" {
		d.User = "root"
	}
	if d.Name == "" {
		d.Name = "bizadmin"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 25
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 25
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 10 * time.Minute
	}
	if d.ConnMaxIdleTime == 0 {
		d.ConnMaxIdleTime = 5 * time.Minute
	}
}

// SQLDriverName is the database/sql driver registered for the dialect.
func (d DatabaseConfig) SQLDriverName() string {
	if d.Driver == DriverPostgres {
		return "pgx"
	}
	return "mysql"
}

// DataSourceName builds the connection string for database/sql.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	if d.Driver == DriverPostgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = 5 * time.Second
	mc.ReadTimeout = 30 * time.Second
	mc.WriteTimeout = 30 * time.Second
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// MigrationURL is the golang-migrate database URL for the dialect.
func (d DatabaseConfig) MigrationURL() (string, error) {
	dsn := d.DataSourceName()
	if d.Driver == DriverPostgres {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres dsn: %w", err)
		}
		u.Scheme = "pgx5"
		return u.String(), nil
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	mc.MultiStatements = true
	return "mysql://" + mc.FormatDSN(), nil
}

// ConnectDB opens and pings the pool described by cfg.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.SQLDriverName(), cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// EnsureDB pings an open pool with a short timeout.
func EnsureDB(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
