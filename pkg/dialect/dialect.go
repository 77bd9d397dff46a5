// Package dialect identifies which SQL vendor syntax a piece of text most
// likely uses. Detection is heuristic and confidence-graded: it never
// validates SQL, it only scores syntax signals so callers can decide whether
// a dialect switch is safe or should stay a suggestion.
package dialect

import "strings"

// ID names a SQL vendor syntax variant.
type ID string

// Known dialects. Unknown is the zero value and means "no determination".
const (
	Unknown     ID = ""
	MySQL       ID = "mysql"
	MariaDB     ID = "mariadb"
	PostgreSQL  ID = "postgresql"
	TransactSQL ID = "transactsql"
	SQLite      ID = "sqlite"
	Snowflake   ID = "snowflake"
	BigQuery    ID = "bigquery"
	Hive        ID = "hive"
	Redshift    ID = "redshift"
	Athena      ID = "athena"
	Trino       ID = "trino"
	Oracle      ID = "oracle"
	Teradata    ID = "teradata"
)

// All returns every known dialect in a stable order.
func All() []ID {
	return []ID{
		MySQL, MariaDB, PostgreSQL, TransactSQL, SQLite, Snowflake,
		BigQuery, Hive, Redshift, Athena, Trino, Oracle, Teradata,
	}
}

// displayNames maps IDs to their conventional spelling.
var displayNames = map[ID]string{
	MySQL:       "MySQL",
	MariaDB:     "MariaDB",
	PostgreSQL:  "PostgreSQL",
	TransactSQL: "Transact-SQL",
	SQLite:      "SQLite",
	Snowflake:   "Snowflake",
	BigQuery:    "BigQuery",
	Hive:        "Hive",
	Redshift:    "Redshift",
	Athena:      "Athena",
	Trino:       "Trino",
	Oracle:      "Oracle",
	Teradata:    "Teradata",
}

// String returns the display name for the dialect.
func (d ID) String() string {
	if name, ok := displayNames[d]; ok {
		return name
	}
	return "unknown"
}

// aliases maps user-facing names to IDs. Keys are lowercase.
var aliases = map[string]ID{
	"mysql":       MySQL,
	"mariadb":     MariaDB,
	"postgresql":  PostgreSQL,
	"postgres":    PostgreSQL,
	"pg":          PostgreSQL,
	"transactsql": TransactSQL,
	"tsql":        TransactSQL,
	"t-sql":       TransactSQL,
	"mssql":       TransactSQL,
	"sqlserver":   TransactSQL,
	"sqlite":      SQLite,
	"sqlite3":     SQLite,
	"snowflake":   Snowflake,
	"bigquery":    BigQuery,
	"bq":          BigQuery,
	"hive":        Hive,
	"redshift":    Redshift,
	"athena":      Athena,
	"trino":       Trino,
	"presto":      Trino,
	"oracle":      Oracle,
	"plsql":       Oracle,
	"teradata":    Teradata,
}

// Parse resolves a user-supplied dialect name (including common aliases)
// to an ID. Returns Unknown, false for unrecognized names.
func Parse(name string) (ID, bool) {
	d, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Procedural reports whether the dialect commonly carries procedural
// bodies (stored procedures, custom delimiters, batch separators) that the
// procedural-keyword rewriter targets.
func Procedural(d ID) bool {
	switch d {
	case MySQL, MariaDB, TransactSQL, Oracle:
		return true
	}
	return false
}
