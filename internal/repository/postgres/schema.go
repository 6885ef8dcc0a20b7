package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the prefixed tables if they do not exist. DDL is
// generated per table prefix, so each environment owns a disjoint set of
// tables in the same database. Statements are ordered so referenced
// tables exist before the tables that point at them.
//
// Deliberately NO foreign-key constraints with ON DELETE CASCADE: the
// services implement cascades as explicit ordered deletes so behavior is
// identical on stores without enforced referential integrity.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []struct {
		name string
		sql  string
	}{
		{tables.Documents, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				user_id UUID NOT NULL,
				title TEXT NOT NULL,
				kind VARCHAR(16) NOT NULL DEFAULT 'text',
				content TEXT,
				file_name TEXT,
				file_type VARCHAR(8),
				file_size BIGINT,
				blob_url TEXT,
				page_count INTEGER,
				word_count INTEGER,
				is_analyzed BOOLEAN NOT NULL DEFAULT FALSE,
				PRIMARY KEY (id, created_at)
			)
		`, tables.Documents)},
		{tables.Sections, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				document_id UUID NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				level INTEGER NOT NULL DEFAULT 1,
				start_index INTEGER NOT NULL,
				end_index INTEGER NOT NULL,
				parent_id UUID,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, tables.Sections)},
		{tables.Annotations, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				document_id UUID NOT NULL,
				start_index INTEGER NOT NULL,
				end_index INTEGER NOT NULL,
				text TEXT NOT NULL DEFAULT '',
				type VARCHAR(16) NOT NULL,
				comment TEXT,
				severity VARCHAR(16),
				is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, tables.Annotations)},
		{tables.Suggestions, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				document_id UUID NOT NULL,
				document_created_at TIMESTAMPTZ NOT NULL,
				user_id UUID NOT NULL,
				original_text TEXT NOT NULL,
				suggested_text TEXT NOT NULL,
				description TEXT,
				is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, tables.Suggestions)},
		{tables.Chats, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL,
				title TEXT NOT NULL,
				visibility VARCHAR(8) NOT NULL DEFAULT 'private',
				created_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Chats)},
		{tables.Messages, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				chat_id UUID NOT NULL,
				role VARCHAR(16) NOT NULL,
				content JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Messages)},
		{tables.Votes, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				chat_id UUID NOT NULL,
				message_id UUID NOT NULL,
				is_upvoted BOOLEAN NOT NULL,
				PRIMARY KEY (message_id)
			)
		`, tables.Votes)},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("ensure table %s: %w", stmt.name, err)
		}
	}

	indexes := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user ON %s (user_id, created_at DESC)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_document ON %s (document_id, start_index)`,
			tables.Sections, tables.Sections),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_document ON %s (document_id, start_index)`,
			tables.Annotations, tables.Annotations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_version ON %s (document_id, document_created_at)`,
			tables.Suggestions, tables.Suggestions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_chat ON %s (chat_id, created_at)`,
			tables.Messages, tables.Messages),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_chat ON %s (chat_id)`,
			tables.Votes, tables.Votes),
	}

	for _, sql := range indexes {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}

	return nil
}
