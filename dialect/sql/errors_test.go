package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type codeError int

func (e codeError) Error() string { return fmt.Sprintf("sqlite error %d", int(e)) }
func (e codeError) Code() int     { return int(e) }

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name              string
		err               error
		unique, fk, check bool
		notNull           bool
	}{
		{name: "nil"},
		{name: "unrelated", err: errors.New("no such table: t")},
		{name: "unique message", err: errors.New("UNIQUE constraint failed: t.a"), unique: true},
		{name: "primary key code", err: codeError(sqliteConstraintPrimaryKey), unique: true},
		{name: "wrapped unique code", err: fmt.Errorf("create index: %w", codeError(sqliteConstraintUnique)), unique: true},
		{name: "foreign key", err: errors.New("FOREIGN KEY constraint failed"), fk: true},
		{name: "check code", err: codeError(sqliteConstraintCheck), check: true},
		{name: "not null", err: errors.New("NOT NULL constraint failed: t.b"), notNull: true},
		{name: "other code", err: codeError(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.check, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.notNull, IsNotNullConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.fk || tt.check || tt.notNull, IsConstraintError(tt.err))
		})
	}
}

func TestConstraintErrors_SQLite(t *testing.T) {
	drv, err := Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	defer drv.Close()

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE "users" ("email" TEXT)`,
		`INSERT INTO "users" ("email") VALUES ('a@example.com'), ('a@example.com')`,
	} {
		require.NoError(t, drv.Exec(ctx, stmt, []any{}, nil))
	}
	err = drv.Exec(ctx, `CREATE UNIQUE INDEX "users_email" ON "users"("email")`, []any{}, nil)
	require.Error(t, err)
	assert.True(t, IsUniqueConstraintError(err))
	assert.True(t, IsConstraintError(err))
}
