package db

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations`
	selectApplied         = `SELECT id, name, applied_at, checksum FROM schema_migrations ORDER BY id`
	insertApplied         = `INSERT INTO schema_migrations \(name, checksum\) VALUES \(\$1, \$2\)`
)

func newMockMigrator(t *testing.T) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewMigrator(sqlx.NewDb(conn, "sqlmock")), mock
}

func appliedRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "applied_at", "checksum"})
}

func TestBundledMigrations(t *testing.T) {
	m := NewMigrator(nil)

	files, err := m.getMigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "migrations/001_metric_samples.sql", files[0])
	assert.Equal(t, "001_metric_samples", migrationName(files[0]))
}

func TestMigratorUpAppliesPending(t *testing.T) {
	m, mock := newMockMigrator(t)
	m.files = fstest.MapFS{
		"migrations/002_second.sql": {Data: []byte("CREATE INDEX second_idx ON metric_samples (metric);")},
		"migrations/001_first.sql":  {Data: []byte("CREATE TABLE first_table (id INT);")},
	}

	mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectApplied).WillReturnRows(appliedRows())

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE first_table`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertApplied).
		WithArgs("001_first", checksum([]byte("CREATE TABLE first_table (id INT);"))).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE INDEX second_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertApplied).WithArgs("002_second", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	ran, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first", "002_second"}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorUpSkipsApplied(t *testing.T) {
	m, mock := newMockMigrator(t)

	mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectApplied).
		WillReturnRows(appliedRows().AddRow(1, "001_metric_samples", time.Now(), "abc"))

	ran, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorUpRollsBackFailedMigration(t *testing.T) {
	m, mock := newMockMigrator(t)

	mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectApplied).WillReturnRows(appliedRows())
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS metric_samples`).WillReturnError(fmt.Errorf("permission denied"))
	mock.ExpectRollback()

	ran, err := m.Up(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_metric_samples")
	assert.Empty(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorUpTableCreationFails(t *testing.T) {
	m, mock := newMockMigrator(t)

	mock.ExpectExec(createMigrationsTable).WillReturnError(fmt.Errorf("read-only transaction"))

	_, err := m.Up(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create migrations table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorStatus(t *testing.T) {
	m, mock := newMockMigrator(t)
	m.files = fstest.MapFS{
		"migrations/001_first.sql":  {Data: []byte("SELECT 1;")},
		"migrations/002_second.sql": {Data: []byte("SELECT 2;")},
	}
	appliedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectApplied).WillReturnRows(appliedRows().AddRow(1, "001_first", appliedAt, "abc"))

	statuses, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []MigrationStatus{
		{Name: "001_first", Applied: true, AppliedAt: appliedAt},
		{Name: "002_second"},
	}, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChecksumStable(t *testing.T) {
	a := checksum([]byte("CREATE TABLE x (id INT);"))
	b := checksum([]byte("CREATE TABLE x (id INT);"))
	c := checksum([]byte("CREATE TABLE y (id INT);"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
