package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		expected string
	}{
		{"raw", Raw("length(name) > 0"), "length(name) > 0"},
		{"raw keeps markers", Raw("a = ?"), "a = ?"},
		{"format int", Expr("score > ?", 0), "score > 0"},
		{"format strings", Expr("status IN (?, ?)", "a", "b's"), "status IN ('a', 'b''s')"},
		{"format without args", Expr("x IS NOT NULL"), "x IS NOT NULL"},
		{"marker in string literal", Expr("note <> '?' AND n > ?", 1), "note <> '?' AND n > 1"},
		{"marker in quoted identifier", Expr(`"what?" = ?`, true), `"what?" = 1`},
		{"marker in brackets", Expr("[a?] = ?", nil), "[a?] = NULL"},
		{"escaped quote in literal", Expr("s = 'it''s ?' OR s = ?", "x"), "s = 'it''s ?' OR s = 'x'"},
		{"literal string", Lit("guest"), "'guest'"},
		{"literal null", Lit(nil), "NULL"},
		{"literal float", Lit(1.0), "1.0"},
		{"parameter-like text in literal", Expr("t > '12:30' AND s <> '?1' AND n = ?", 2), "t > '12:30' AND s <> '?1' AND n = 2"},
		{"dollar inside identifier", Expr("a$b = ?", 1), "a$b = 1"},
		{"nested expression arg", Expr("d > ?", Raw("CURRENT_DATE")), "d > CURRENT_DATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.expr.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestExpression_NeverRendersPlaceholders(t *testing.T) {
	s, err := Expr("a = ? AND b = ?", 1, "x").SQL()
	require.NoError(t, err)
	assert.NotContains(t, s, "?")
}

func TestExpression_Errors(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		_, err := Expr("a = ? AND b = ?", 1).SQL()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing argument 2")
	})

	t.Run("extra argument", func(t *testing.T) {
		_, err := Expr("a = ?", 1, 2).SQL()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 arguments for 1 markers")
	})

	t.Run("numbered parameter", func(t *testing.T) {
		s, err := Expr("a = ?1 AND b = ?", 5, 6).SQL()
		require.Error(t, err)
		assert.Empty(t, s)
		assert.Contains(t, err.Error(), `numbered parameter "?1" is not supported`)
	})

	t.Run("named parameters", func(t *testing.T) {
		for _, text := range []string{"a = :min", "a = @min", "a = $min", "a > ? AND b = :max"} {
			_, err := Expr(text, 1).SQL()
			require.Error(t, err, text)
			assert.Contains(t, err.Error(), "named parameter", text)
		}
	})

	t.Run("unsupported argument", func(t *testing.T) {
		_, err := Expr("a = ?", struct{}{}).SQL()
		require.Error(t, err)
	})

	t.Run("zero", func(t *testing.T) {
		var e Expression
		require.True(t, e.IsZero())
		_, err := e.SQL()
		require.Error(t, err)
	})
}
