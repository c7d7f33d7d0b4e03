package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/store"
)

// SQLite is supported on a best-effort basis for development and testing.
// Boards and reminders are fully served; conversations, messages and agent
// search require PostgreSQL and return a clear error instead of a partial
// implementation.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database file named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode with a busy timeout keeps the single local writer
	// from tripping over readers.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
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
		"SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'card')",
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}

// inTx runs fn inside a transaction, rolling back on any error.
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

var errRequiresPostgres = errors.New("not supported in SQLite (use PostgreSQL for AI features)")

// Agents

func (d *DB) ListAgents(ctx context.Context, find *store.FindAgent) ([]*store.Agent, error) {
	return nil, errRequiresPostgres
}

func (d *DB) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	return errRequiresPostgres
}

func (d *DB) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*store.Agent, error) {
	return nil, errRequiresPostgres
}

// Conversations

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	return nil, errRequiresPostgres
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	return nil, errRequiresPostgres
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	return nil, errRequiresPostgres
}

func (d *DB) DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error {
	return errRequiresPostgres
}

func (d *DB) CountConversations(ctx context.Context, userID, agentID int32) (int32, error) {
	return 0, errRequiresPostgres
}

// Messages and media

func (d *DB) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	return nil, errRequiresPostgres
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	return nil, errRequiresPostgres
}

func (d *DB) CountMessages(ctx context.Context, conversationID int32) (int32, error) {
	return 0, errRequiresPostgres
}

func (d *DB) CountUserMessages(ctx context.Context, userID int32) (int32, error) {
	return 0, errRequiresPostgres
}

func (d *DB) FinishExchange(ctx context.Context, complete *store.CompleteExchange) (*store.Message, error) {
	return nil, errRequiresPostgres
}

func (d *DB) GetMedia(ctx context.Context, find *store.FindMedia) (*store.Media, error) {
	return nil, errRequiresPostgres
}
