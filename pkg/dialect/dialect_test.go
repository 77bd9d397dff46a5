package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want ID
		ok   bool
	}{
		{"postgres", PostgreSQL, true},
		{"pg", PostgreSQL, true},
		{"PostgreSQL", PostgreSQL, true},
		{"tsql", TransactSQL, true},
		{"mssql", TransactSQL, true},
		{"sqlserver", TransactSQL, true},
		{"presto", Trino, true},
		{"plsql", Oracle, true},
		{"  snowflake  ", Snowflake, true},
		{"db2", Unknown, false},
		{"", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Transact-SQL", TransactSQL.String())
	assert.Equal(t, "PostgreSQL", PostgreSQL.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "unknown", ID("db2").String())
}

func TestProcedural(t *testing.T) {
	assert.True(t, Procedural(MySQL))
	assert.True(t, Procedural(MariaDB))
	assert.True(t, Procedural(TransactSQL))
	assert.True(t, Procedural(Oracle))
	assert.False(t, Procedural(PostgreSQL))
	assert.False(t, Procedural(Snowflake))
	assert.False(t, Procedural(Unknown))
}

func TestAllHaveDisplayNames(t *testing.T) {
	for _, d := range All() {
		assert.NotEqual(t, "unknown", d.String(), "missing display name for %s", d)
	}
}
