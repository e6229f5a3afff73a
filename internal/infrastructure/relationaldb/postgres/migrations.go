package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/store/*.sql migrations/audit/*.sql
var migrationsFS embed.FS

// Migration sets. Each is tracked separately in schema_migrations so the
// entity and audit schemas can live in different databases.
const (
	scopeStore = "store"
	scopeAudit = "audit"
)

type migration struct {
	version int
	name    string
	content string
}

// loadMigrations reads the numbered files of one scope, sorted by version.
// Files are named "<version>_<description>.sql".
func loadMigrations(scope string, logger zerolog.Logger) ([]migration, error) {
	dir := "migrations/" + scope
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		prefix, _, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			logger.Warn().Str("file", entry.Name()).Msg("Skipping migration file with invalid name format")
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			logger.Warn().Str("file", entry.Name()).Err(err).Msg("Skipping migration file with invalid version number")
			continue
		}

		content, err := migrationsFS.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, migration{
			version: version,
			name:    entry.Name(),
			content: string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

// runMigrations applies every pending migration of scope in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool, scope string, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			scope TEXT NOT NULL,
			version INTEGER NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (scope, version)
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	migrations, err := loadMigrations(scope, logger)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if err := applyMigration(ctx, pool, scope, m, logger); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}
	return nil
}

// applyMigration runs a single migration if it hasn't been applied yet.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, scope string, m migration, logger zerolog.Logger) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	// Serializes concurrent migrators on the same scope.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope); err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}

	var applied bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE scope = $1 AND version = $2)
	`, scope, m.version).Scan(&applied); err != nil {
		return fmt.Errorf("checking migration status: %w", err)
	}
	if applied {
		logger.Debug().Str("scope", scope).Int("version", m.version).Msg("Migration already applied, skipping")
		return nil
	}

	logger.Info().Str("scope", scope).Int("version", m.version).Str("name", m.name).Msg("Applying migration")
	if _, err := tx.Exec(ctx, m.content); err != nil {
		return fmt.Errorf("executing migration SQL: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (scope, version) VALUES ($1, $2)`, scope, m.version); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}
