package storage

import (
	"strconv"
	"strings"
)

// numbered rewrites `?` placeholders to Postgres-style `$1..$N`, left to
// right. The rewrite is order-stable: the Nth `?` in the source always
// becomes `$N`, so the parameter list binds positionally on both backends.
// Question marks inside single-quoted literals are left untouched.
func numbered(query string) string {
	if !strings.ContainsRune(query, '?') {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for _, ch := range query {
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			b.WriteRune(ch)
		case ch == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
