package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a connection to the PostgreSQL database specified by the
// profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	driver := DB{db: db, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'conversation')",
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}

// placeholder returns the positional parameter for 1-based index n.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, placeholder(i))
	}
	return strings.Join(list, ", ")
}

// inTx runs fn inside a transaction, rolling back on any error so partial
// writes never become visible.
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}
