package scriptcache

import (
	"strings"

	// Registered database/sql drivers, following internal/database/
	// database.go's blank-import-them-all pattern. modernc.org/sqlite is
	// the default (cgo-free, so `tessera cache` works without a C
	// toolchain); the other four are selected by DSN scheme for a host
	// that wants to share a cache across a fleet instead of a local file.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	_ "modernc.org/sqlite"
)

// selectDriver maps a dsn's scheme to a registered driver name and the
// driver-specific source string, defaulting to modernc.org/sqlite when dsn
// has no recognized scheme (including the empty string, which opens an
// in-memory database).
func selectDriver(dsn string) (driver, source string) {
	switch {
	case dsn == "":
		return "sqlite", "file::memory:?cache=shared"
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver", dsn
	case strings.HasPrefix(dsn, "sqlite3://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite3://")
	default:
		return "sqlite", dsn
	}
}
