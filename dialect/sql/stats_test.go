package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var slow []string
	drv := NewStatsDriver(OpenDB("sqlite", db),
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, _ time.Duration) {
			slow = append(slow, query)
		}),
	)

	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE").WillReturnError(errors.New("no such table: t"))
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"name"}))

	require.NoError(t, drv.Exec(context.Background(), `CREATE TABLE "t" ("id" INTEGER)`, []any{}, nil))
	require.Error(t, drv.Exec(context.Background(), `DROP TABLE "t"`, []any{}, nil))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT name FROM sqlite_master", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.Stats()
	assert.Equal(t, int64(2), s.Execs)
	assert.Equal(t, int64(1), s.Queries)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(3), s.Slow)
	assert.Equal(t, []string{`CREATE TABLE "t" ("id" INTEGER)`, `DROP TABLE "t"`, "SELECT name FROM sqlite_master"}, slow)
}

func TestStatsDriver_Threshold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	called := false
	drv := NewStatsDriver(OpenDB("sqlite", db),
		WithSlowThreshold(time.Hour),
		WithSlowQueryHook(func(context.Context, string, time.Duration) { called = true }),
	)
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, drv.Exec(context.Background(), `CREATE TABLE "t" ("id" INTEGER)`, []any{}, nil))
	assert.False(t, called)
	assert.Zero(t, drv.Stats().Slow)
}

func TestStatsDriver_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB("sqlite", db))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), `CREATE INDEX "i" ON "t"("a")`, []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(1), drv.Stats().Execs)
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var logged []string
	drv := NewDebugDriver(OpenDB("sqlite", db), DebugWithLog(func(_ context.Context, msg string, kv ...any) {
		logged = append(logged, msg)
		if len(kv) > 1 {
			logged = append(logged, kv[1].(string))
		}
	}))

	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), `ALTER TABLE "a" RENAME TO "b"`, []any{}, nil))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{
		"begin transaction",
		"tx exec", `ALTER TABLE "a" RENAME TO "b"`,
		"rollback transaction",
	}, logged)
}
