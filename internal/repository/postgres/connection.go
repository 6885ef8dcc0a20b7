package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"casefile/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Documents   string
	Sections    string
	Annotations string
	Suggestions string
	Chats       string
	Messages    string
	Votes       string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents:   fmt.Sprintf("%sdocuments", prefix),
		Sections:    fmt.Sprintf("%sdocument_sections", prefix),
		Annotations: fmt.Sprintf("%sdocument_annotations", prefix),
		Suggestions: fmt.Sprintf("%ssuggestions", prefix),
		Chats:       fmt.Sprintf("%schats", prefix),
		Messages:    fmt.Sprintf("%smessages", prefix),
		Votes:       fmt.Sprintf("%svotes", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Table names are interpolated into SQL with fmt.Sprintf before the
// statement reaches the database, so each environment prefix (dev_,
// test_, prod_) gets its own prepared statements and the dynamic names
// stay compatible with statement caching.
//
// When the connection string points at a transaction-pooling proxy
// (PgBouncer on port 6543), prepared statements break; cache_describe
// mode keeps the extended protocol (needed for JSONB message content)
// without creating server-side prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise it returns the provided pool. This lets repositories
// automatically participate in transactions when one exists.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
