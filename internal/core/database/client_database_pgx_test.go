package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/models"
)

const runID = "6f1c3c58-4a61-4f7e-9d0e-3a1f0b7c2d11"

func newMock(t *testing.T) (*DatabaseClient, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewWithDB(sqlDB), mock
}

func runRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "file_name", "status", "cache_id", "error_kind", "error_message", "created_at", "updated_at"})
}

func TestCreateRun(t *testing.T) {
	client, mock := newMock(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(runID, "plan.docx", models.RunProcessing, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	run := &models.Run{ID: runID, FileName: "plan.docx"}
	require.NoError(t, client.CreateRun(context.Background(), run))
	assert.Equal(t, models.RunProcessing, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRun_Errors(t *testing.T) {
	client, mock := newMock(t)
	assert.Error(t, client.CreateRun(context.Background(), nil))

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("duplicate key"))
	err := client.CreateRun(context.Background(), &models.Run{ID: runID, FileName: "a.pdf"})
	assert.ErrorContains(t, err, "duplicate key")
}

func TestFinishRun(t *testing.T) {
	client, mock := newMock(t)

	mock.ExpectExec("UPDATE runs").
		WithArgs(runID, models.RunReady, "c0ffee", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, client.FinishRun(context.Background(), runID, models.RunReady, "c0ffee", "", ""))

	mock.ExpectExec("UPDATE runs").WillReturnResult(sqlmock.NewResult(0, 0))
	err := client.FinishRun(context.Background(), runID, models.RunFailed, "", "NO_DMP_REGION", "no anchor")
	assert.ErrorContains(t, err, "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun(t *testing.T) {
	client, mock := newMock(t)
	created := time.Date(2025, 10, 9, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM runs WHERE id").
		WithArgs(runID).
		WillReturnRows(runRows().AddRow(runID, "plan.docx", "failed", "", "INVALID_SOURCE", "file is empty", created, created))

	run, err := client.GetRun(context.Background(), runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "INVALID_SOURCE", run.ErrorKind)
	assert.Equal(t, created, run.CreatedAt)

	mock.ExpectQuery("SELECT (.+) FROM runs WHERE id").WillReturnRows(runRows())
	run, err = client.GetRun(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.Nil(t, run)
}

func TestListRuns(t *testing.T) {
	client, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM runs ORDER BY created_at DESC LIMIT").
		WithArgs(defaultListLimit).
		WillReturnRows(runRows().
			AddRow(runID, "b.pdf", "ready", "id-b", "", "", now, now).
			AddRow("7a", "a.docx", "processing", "", "", "", now.Add(-time.Hour), now.Add(-time.Hour)))

	runs, err := client.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.pdf", runs[0].FileName)
	assert.Equal(t, "id-b", runs[0].CacheID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDatabaseClient_RequiresURL(t *testing.T) {
	_, err := NewDatabaseClient(context.Background(), nil)
	assert.Error(t, err)
	_, err = NewDatabaseClient(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestEnsureBootstrapped(t *testing.T) {
	metaCheck := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM dmpart_meta WHERE version = $1)")

	t.Run("fresh database", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery("information_schema.tables").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, EnsureBootstrapped(context.Background(), sqlDB))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already bootstrapped", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery("information_schema.tables").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(metaCheck).WithArgs(schemaVersion).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, EnsureBootstrapped(context.Background(), sqlDB))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("script failure rolls back", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery("information_schema.tables").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(metaCheck).WithArgs(schemaVersion).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = EnsureBootstrapped(context.Background(), sqlDB)
		assert.ErrorContains(t, err, "exec bootstrap")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
