package repositories

import (
	"database/sql/driver"
	"strings"

	"github.com/guironm/crew-center/internal/search"

	"modernc.org/sqlite"
)

// SQLite's built-in LOWER and NOCASE only fold ASCII, so the sqlite store gets
// Go implementations that fold and order text like the in-memory engine.
const (
	sqliteLowerFunc = "crew_lower"
	sqliteCollation = "crew_text"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLowerFunc, 1, sqliteLower)
	sqlite.MustRegisterCollationUtf8(sqliteCollation, search.CompareText)
}

func sqliteLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// dialect holds the per-driver spelling of case folding and text ordering.
type dialect struct {
	lowerFunc string
	collation string
}

var (
	defaultDialect = dialect{lowerFunc: "LOWER"}
	sqliteDialect  = dialect{lowerFunc: sqliteLowerFunc, collation: sqliteCollation}
)

func dialectFor(driverName string) dialect {
	if driverName == "sqlite" {
		return sqliteDialect
	}
	return defaultDialect
}

func (d dialect) lower(expr string) string {
	return d.lowerFunc + "(" + expr + ")"
}

// equalFold compares expr to a bound argument ignoring case.
func (d dialect) equalFold(expr string) string {
	return d.lower(expr) + " = " + d.lower("?")
}

// textOrder is the ORDER BY key for a text column.
func (d dialect) textOrder(expr string) string {
	if d.collation != "" {
		return expr + " COLLATE " + d.collation
	}
	return d.lower(expr)
}
