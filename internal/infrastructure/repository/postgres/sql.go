package postgres

import (
	"database/sql"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// sanitizeIdent lowercases a provider column header and squashes anything
// outside [a-z0-9_] so it is safe to use as a column name.
func sanitizeIdent(name string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			out.WriteByte('_')
		}
	}
	if out.Len() == 0 {
		return "col"
	}
	s := out.String()
	if s[0] >= '0' && s[0] <= '9' {
		s = "c_" + s
	}
	return s
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// splitTablePattern builds the LIKE pattern for a base table's split tables
// (base_suffix). Underscores in the base are escaped so they match literally
// instead of acting as single-character wildcards; use with ESCAPE '\'.
func splitTablePattern(base string) string {
	return strings.ReplaceAll(base, "_", `\_`) + `\_%`
}
