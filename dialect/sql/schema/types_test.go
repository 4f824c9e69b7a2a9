package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType_UnmarshalText(t *testing.T) {
	for in, want := range map[string]ColumnType{
		"text": Text, "INTEGER": Integer, "Double": Double, "numeric": Numeric,
		"boolean": Boolean, "blob": Blob, "date": Date, " datetime ": Datetime,
	} {
		var ct ColumnType
		require.NoError(t, ct.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, ct)
	}
	var ct ColumnType
	err := ct.UnmarshalText([]byte("varchar"))
	require.EqualError(t, err, `schema: unknown column type "varchar"`)
}

func TestConflictResolution_UnmarshalText(t *testing.T) {
	for in, want := range map[string]ConflictResolution{
		"rollback": Rollback, "abort": Abort, "FAIL": Fail, "Ignore": Ignore, "replace": Replace,
	} {
		var r ConflictResolution
		require.NoError(t, r.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, r)
	}
	var r ConflictResolution
	require.Error(t, r.UnmarshalText([]byte("retry")))
}

func TestReferenceOption_UnmarshalText(t *testing.T) {
	for in, want := range map[string]ReferenceOption{
		"cascade": Cascade, "RESTRICT": Restrict,
		"set null": SetNull, "set_null": SetNull, "SetNull": SetNull,
		"set default": SetDefault, "SET_DEFAULT": SetDefault, "setdefault": SetDefault,
	} {
		var o ReferenceOption
		require.NoError(t, o.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, o)
	}
	var o ReferenceOption
	require.EqualError(t, o.UnmarshalText([]byte("no action")), `schema: unknown reference option "no action"`)
}

func TestCollation_UnmarshalText(t *testing.T) {
	for in, want := range map[string]Collation{
		"binary": Binary, "NoCase": NoCase, "rtrim": RTrim, "unicode": "unicode",
	} {
		var c Collation
		require.NoError(t, c.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, c)
	}
	var c Collation
	require.Error(t, c.UnmarshalText([]byte(" ")))
}
