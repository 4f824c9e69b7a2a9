package schema

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/liteddl/dialect/sql"
)

// openDB opens a private in-memory database with foreign keys enabled.
func openDB(t *testing.T) *sql.Driver {
	t.Helper()
	drv, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, drv.Close()) })
	return drv
}

func execAll(t *testing.T, drv *sql.Driver, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		require.NoError(t, drv.Exec(context.Background(), stmt, []any{}, nil), stmt)
	}
}

func TestPragmaInspector_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	insp := NewPragmaInspector(sql.OpenDB("sqlite", db))

	mock.ExpectQuery(regexp.QuoteMeta(pragmaPrimaryKeyQuery)).
		WithArgs("target").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("x").AddRow("y"))
	cols, err := insp.PrimaryKey(context.Background(), "target")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, cols)

	mock.ExpectQuery(regexp.QuoteMeta(pragmaPrimaryKeyQuery)).
		WithArgs("plain").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	cols, err = insp.PrimaryKey(context.Background(), "plain")
	require.NoError(t, err)
	require.Nil(t, cols)

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(regexp.QuoteMeta(pragmaPrimaryKeyQuery)).WillReturnError(boom)
	_, err = insp.PrimaryKey(context.Background(), "broken")
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectors_SQLite(t *testing.T) {
	drv := openDB(t)
	execAll(t, drv,
		`CREATE TABLE "single" ("id" INTEGER PRIMARY KEY, "name" TEXT)`,
		`CREATE TABLE "pair" ("b" TEXT, "a" TEXT, PRIMARY KEY ("a", "b"))`,
		`CREATE TABLE "plain" ("v" TEXT)`,
	)
	ctx := context.Background()
	for name, insp := range map[string]Inspector{
		"pragma": NewPragmaInspector(drv),
		"atlas":  NewAtlasInspector(drv.DB()),
	} {
		t.Run(name, func(t *testing.T) {
			cols, err := insp.PrimaryKey(ctx, "single")
			require.NoError(t, err)
			assert.Equal(t, []string{"id"}, cols)

			cols, err = insp.PrimaryKey(ctx, "pair")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, cols)

			cols, err = insp.PrimaryKey(ctx, "plain")
			require.NoError(t, err)
			assert.Empty(t, cols)

			cols, err = insp.PrimaryKey(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, cols)
		})
	}
}

func TestStaticInspector(t *testing.T) {
	insp := StaticInspector{"Authors": {"id"}, "pairs": {"a", "b"}}
	ctx := context.Background()

	cols, err := insp.PrimaryKey(ctx, "Authors")
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, cols)

	cols, err = insp.PrimaryKey(ctx, "authors")
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, cols)

	cols, err = insp.PrimaryKey(ctx, "books")
	require.NoError(t, err)
	require.Nil(t, cols)
}

func TestChainInspector(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	insp := ChainInspector(
		StaticInspector{"a": {"id"}},
		nil,
		StaticInspector{"a": {"other"}, "b": {"k"}},
	)

	cols, err := insp.PrimaryKey(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, cols)

	cols, err = insp.PrimaryKey(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, []string{"k"}, cols)

	cols, err = insp.PrimaryKey(ctx, "c")
	require.NoError(t, err)
	require.Nil(t, cols)

	failing := ChainInspector(StaticInspector{}, InspectorFunc(func(context.Context, string) ([]string, error) {
		return nil, boom
	}))
	_, err = failing.PrimaryKey(ctx, "a")
	require.ErrorIs(t, err, boom)
}
