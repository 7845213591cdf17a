package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Database holds the database handle and provides access to repositories
type Database struct {
	DB *sql.DB

	driver string
	logger zerolog.Logger

	// Repositories
	Livestreams *LivestreamRepository
}

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the driver specific connection string
func (c Config) DSN() string {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))

	if c.driver() == DriverPostgres {
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   addr,
			Path:   "/" + c.Database,
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = c.Database
	// Report matched rows so an unchanged video still counts as updated
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverMySQL
	}
	return strings.ToLower(c.Driver)
}

// NewDatabase opens a single database connection and initializes repositories
func NewDatabase(ctx context.Context, cfg Config, logger zerolog.Logger) (*Database, error) {
	driver := cfg.driver()
	if driver != DriverMySQL && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection for the whole run
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("driver", driver).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")

	return newDatabase(conn, driver, logger), nil
}

// NewDatabaseFromDB wraps an already open handle
func NewDatabaseFromDB(conn *sql.DB, driver string, logger zerolog.Logger) *Database {
	return newDatabase(conn, strings.ToLower(driver), logger)
}

func newDatabase(conn *sql.DB, driver string, logger zerolog.Logger) *Database {
	db := &Database{
		DB:     conn,
		driver: driver,
		logger: logger.With().Str("component", "repository").Logger(),
	}

	db.Livestreams = &LivestreamRepository{db: db}

	return db
}

// builder returns a statement builder using the driver's placeholder style
func (db *Database) builder() sq.StatementBuilderType {
	if db.driver == DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Close closes the database handle
func (db *Database) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.logger.Info().Msg("Database connection closed")
	return nil
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}
