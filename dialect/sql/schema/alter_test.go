package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/liteddl"
)

func TestAlterDef_SQL(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		stmt, err := NewAlter("t").SQL(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, stmt)
	})

	t.Run("single column", func(t *testing.T) {
		a := NewAlter("users")
		a.AddColumn("bio", Text).Default("")
		stmt, err := a.SQL(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "bio" TEXT DEFAULT ''`, stmt)
		assert.Equal(t, "users", a.Name())
	})

	t.Run("batch in declaration order", func(t *testing.T) {
		a := NewAlter("t")
		a.AddColumn("a", Text)
		a.AddColumn("b", Integer).NotNull().Default(0)
		stmt, err := a.SQL(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, `ALTER TABLE "t" ADD COLUMN "a" TEXT; ALTER TABLE "t" ADD COLUMN "b" INTEGER NOT NULL DEFAULT 0`, stmt)
	})

	t.Run("reference resolved by inspector", func(t *testing.T) {
		a := NewAlter("books")
		a.AddColumn("editor_id", Integer).References("people", OnDelete(SetNull))
		stmt, err := a.SQL(ctx, StaticInspector{"People": {"id"}})
		require.NoError(t, err)
		assert.Equal(t, `ALTER TABLE "books" ADD COLUMN "editor_id" INTEGER REFERENCES "people"("id") ON DELETE SET NULL`, stmt)
	})

	t.Run("unresolved reference", func(t *testing.T) {
		a := NewAlter("books")
		a.AddColumn("a", Text)
		a.AddColumn("editor_id", Integer).References("people")
		stmt, err := a.SQL(ctx, StaticInspector{})
		require.Empty(t, stmt)
		require.True(t, liteddl.IsInvariantViolation(err))
	})
}
