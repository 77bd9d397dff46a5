package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPreservesLength(t *testing.T) {
	inputs := []string{
		"",
		"SELECT 1",
		"SELECT 'hello' FROM t",
		"SELECT /* comment */ 1",
		"-- whole line\nSELECT 1",
		"SELECT 'unterminated",
		"/* unterminated",
		"SELECT 'it''s', \"a\"\"b\" FROM t",
		"SELECT 1 # trailing",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Len(t, Mask(in), len(in))
		})
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "string content blanked, delimiters kept",
			input: "SELECT 'abc' FROM t",
			want:  "SELECT '   ' FROM t",
		},
		{
			name:  "doubled quote is escaped, not terminating",
			input: "SELECT 'it''s' FROM t",
			want:  "SELECT '     ' FROM t",
		},
		{
			name:  "double-quoted identifier content blanked",
			input: `SELECT "col name" FROM t`,
			want:  `SELECT "        " FROM t`,
		},
		{
			name:  "block comment fully blanked",
			input: "SELECT /* hi */ 1",
			want:  "SELECT          1",
		},
		{
			name:  "line comment blanked to end of line",
			input: "SELECT 1 -- note\nSELECT 2",
			want:  "SELECT 1        \nSELECT 2",
		},
		{
			name:  "hash line comment blanked",
			input: "SELECT 1 # note",
			want:  "SELECT 1       ",
		},
		{
			name:  "newlines inside block comment survive",
			input: "/* a\nb */SELECT 1",
			want:  "    \n    SELECT 1",
		},
		{
			name:  "unterminated string blanks to end",
			input: "SELECT 'oops",
			want:  "SELECT '    ",
		},
		{
			name:  "comment marker inside string is content",
			input: "SELECT '--x' FROM t",
			want:  "SELECT '   ' FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.input))
		})
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strings untouched",
			input: "SELECT 'abc' -- note",
			want:  "SELECT 'abc'        ",
		},
		{
			name:  "comment marker inside string kept",
			input: "SELECT '--not a comment'",
			want:  "SELECT '--not a comment'",
		},
		{
			name:  "block comment blanked",
			input: "SELECT /* x */ 1",
			want:  "SELECT         1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.input))
		})
	}
}
