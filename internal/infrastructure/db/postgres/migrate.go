package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	upSuffix   = "_up.sql"
	downSuffix = "_down.sql"
)

// Direction selects which migration files are applied.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

type migration struct {
	version string
	up      string
	down    string
}

// loadMigrations returns the embedded migrations ordered by version.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	byVersion := map[string]*migration{}
	for _, name := range names {
		base := strings.TrimPrefix(name, "migrations/")
		var version string
		switch {
		case strings.HasSuffix(base, upSuffix):
			version = strings.TrimSuffix(base, upSuffix)
		case strings.HasSuffix(base, downSuffix):
			version = strings.TrimSuffix(base, downSuffix)
		default:
			continue
		}
		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version}
			byVersion[version] = m
		}
		if strings.HasSuffix(base, upSuffix) {
			m.up = name
		} else {
			m.down = name
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %s has no up file", m.version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// Migrate applies pending migrations (Up) or reverts applied ones (Down).
// steps limits how many are run; zero means all. Each migration runs in its
// own transaction together with its schema_migrations bookkeeping.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir Direction, steps int, log zerolog.Logger) error {
	migrations, err := loadMigrations(migrationFiles)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return err
	}

	plan := planMigrations(migrations, applied, dir, steps)
	if len(plan) == 0 {
		log.Info().Str("direction", string(dir)).Msg("no migrations to apply")
		return nil
	}

	for _, m := range plan {
		start := time.Now()
		if err := runMigration(ctx, pool, m, dir); err != nil {
			return fmt.Errorf("migration %s %s: %w", m.version, dir, err)
		}
		log.Info().
			Str("version", m.version).
			Str("direction", string(dir)).
			Dur("took", time.Since(start)).
			Msg("migration applied")
	}
	return nil
}

// planMigrations picks the migrations to run in execution order.
func planMigrations(all []migration, applied map[string]bool, dir Direction, steps int) []migration {
	var plan []migration
	switch dir {
	case Up:
		for _, m := range all {
			if !applied[m.version] {
				plan = append(plan, m)
			}
		}
	case Down:
		for i := len(all) - 1; i >= 0; i-- {
			if applied[all[i].version] && all[i].down != "" {
				plan = append(plan, all[i])
			}
		}
	}
	if steps > 0 && steps < len(plan) {
		plan = plan[:steps]
	}
	return plan
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	out := make(map[string]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out, nil
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, m migration, dir Direction) error {
	file := m.up
	if dir == Down {
		file = m.down
	}
	sql, err := migrationFiles.ReadFile(file)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return err
		}
		if dir == Up {
			_, err = tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version)
		} else {
			_, err = tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.version)
		}
		return err
	})
}
