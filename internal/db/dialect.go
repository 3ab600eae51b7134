package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported drivers.
// Queries are written with ? placeholders and rebound per dialect.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

func DialectFor(driverName string) (Dialect, error) {
	switch d := Dialect(driverName); d {
	case SQLite, Postgres, MySQL:
		return d, nil
	default:
		return "", fmt.Errorf("db: unsupported driver %q", driverName)
	}
}

// Rebind rewrites ? placeholders to $1..$n for postgres
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
// mysql falls back to LastInsertId.
func (d Dialect) SupportsReturning() bool {
	return d == SQLite || d == Postgres
}
