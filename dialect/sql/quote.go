package sql

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DatetimeFormat is the text layout of time values embedded in statements.
// Times are converted to UTC first.
const DatetimeFormat = "2006-01-02 15:04:05.000"

// Quote wraps the identifier in double quotes, doubling any embedded
// double quote:
//
//	Quote(`users`)    // "users"
//	Quote(`my"table`) // "my""table"
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteList quotes each identifier and joins them with ", ".
func QuoteList(idents []string) string {
	quoted := make([]string, len(idents))
	for i, ident := range idents {
		quoted[i] = Quote(ident)
	}
	return strings.Join(quoted, ", ")
}

// Literal returns the SQL literal text of v.
//
//	nil        NULL
//	string     'text' with embedded quotes doubled
//	[]byte     X'0a0b'
//	bool       1 or 0
//	integers   decimal text
//	floats     shortest representation, always carrying a fraction or exponent
//	time.Time  '2006-01-02 15:04:05.000' in UTC
//
// Expression values render as themselves and driver.Valuer values are
// resolved before conversion.
func Literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case Expression:
		return v.SQL()
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case []byte:
		if v == nil {
			return "NULL", nil
		}
		return "X'" + hex.EncodeToString(v) + "'", nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case time.Time:
		return "'" + v.UTC().Format(DatetimeFormat) + "'", nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("dialect/sql: literal of %T: %w", v, err)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return "", fmt.Errorf("dialect/sql: literal of %T: valuer returned a valuer", v)
		}
		return Literal(dv)
	default:
		return "", fmt.Errorf("dialect/sql: unsupported literal type %T", v)
	}
}

func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("dialect/sql: no literal for float %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
