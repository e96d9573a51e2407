package postgres

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := loadMigrations(migrationFiles)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, "0001_init", migrations[0].version)
	assert.Equal(t, "migrations/0001_init_up.sql", migrations[0].up)
	assert.Equal(t, "migrations/0001_init_down.sql", migrations[0].down)
}

func TestLoadMigrations_OrdersAndRejectsMissingUp(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_rates_up.sql":   {Data: []byte("SELECT 2")},
		"migrations/0001_init_up.sql":    {Data: []byte("SELECT 1")},
		"migrations/0001_init_down.sql":  {Data: []byte("SELECT 1")},
		"migrations/README.sql.disabled": {Data: []byte("ignored")},
	}
	migrations, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "0001_init", migrations[0].version)
	assert.Equal(t, "0002_rates", migrations[1].version)
	assert.Empty(t, migrations[1].down)

	_, err = loadMigrations(fstest.MapFS{
		"migrations/0003_orphan_down.sql": {Data: []byte("SELECT 3")},
	})
	assert.Error(t, err)
}

func TestPlanMigrations(t *testing.T) {
	all := []migration{
		{version: "0001", up: "u1", down: "d1"},
		{version: "0002", up: "u2", down: "d2"},
		{version: "0003", up: "u3"},
	}
	applied := map[string]bool{"0001": true, "0003": true}

	versions := func(ms []migration) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.version)
		}
		return out
	}

	assert.Equal(t, []string{"0002"}, versions(planMigrations(all, applied, Up, 0)))
	// 0003 has no down file and is skipped.
	assert.Equal(t, []string{"0001"}, versions(planMigrations(all, applied, Down, 0)))
	assert.Equal(t, []string{"0001"}, versions(planMigrations(all, map[string]bool{}, Up, 1)))
	assert.Empty(t, planMigrations(all, map[string]bool{}, Down, 0))
}

func TestTranslateError(t *testing.T) {
	notFound := domain.ErrEmployeeNotFound

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "employees_user_id_key"})
	assert.ErrorIs(t, translateError(unique, nil), domain.ErrConflict)

	check := &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "work_hours_single_target"}
	assert.ErrorIs(t, translateError(check, nil), domain.ErrConflict)

	fk := &pgconn.PgError{Code: codeForeignKeyViolation}
	assert.ErrorIs(t, translateError(fk, notFound), domain.ErrEmployeeNotFound)
	assert.ErrorIs(t, translateError(fk, nil), domain.ErrConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other, notFound))
	assert.NoError(t, translateError(nil, notFound))
}
