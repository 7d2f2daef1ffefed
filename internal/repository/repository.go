package repository

import (
	"context"
	"fmt"

	"wellness_tracker/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db      *sqlx.DB
	driver  string
	builder squirrel.StatementBuilderType
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
}

func New(cfg Config) (*Repository, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	var dsn string
	switch driver {
	case DriverPostgres:
		dsn = cfg.GetDatabaseURL()
	case DriverSQLite:
		dsn = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	if driver == DriverSQLite {
		// sqlite allows a single writer; a transaction owns the only connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", driver))

	return &Repository{
		db:      db,
		driver:  driver,
		builder: builder,
	}, nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// forUpdate appends a row lock where the dialect has one.
func (r *Repository) forUpdate(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if r.driver == DriverPostgres {
		return q.Suffix("FOR UPDATE")
	}
	return q
}
