package dbx

import (
	"regexp"
	"strings"
)

// Dialect names the SQL flavour a repository talks to.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var dollarPlaceholder = regexp.MustCompile(`\$[0-9]+`)

// Rebind rewrites a query written with $1..$N placeholders for the target
// dialect. SQLite gets plain positional '?' markers, so each $N must appear
// exactly once and in ascending order.
func Rebind(d Dialect, query string) string {
	if d != DialectSQLite || !strings.Contains(query, "$") {
		return query
	}
	return dollarPlaceholder.ReplaceAllString(query, "?")
}
