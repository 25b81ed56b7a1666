package storage

import "time"

// Row is a single result row keyed by column name. Values keep whatever Go
// type the driver produced; the typed accessors below absorb the differences
// between backends (SQLite hands back int64/TEXT, pgx hands back native
// types), so repositories read columns uniformly.
type Row map[string]any

// Int64 returns the column as int64, or 0 when absent or non-numeric.
func (r Row) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Int returns the column as int.
func (r Row) Int(key string) int {
	return int(r.Int64(key))
}

// String returns the column as string, or "" when absent.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Bool returns the column as bool. SQLite stores booleans as 0/1 integers.
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	}
	return false
}

// timeFormats covers the textual timestamp shapes the SQLite backend
// produces: RFC3339 variants for values bound from Go, and the
// datetime('now') default format for values generated by the database.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Time returns the column as UTC time. Postgres yields time.Time natively;
// SQLite yields text, which is parsed against the known formats. The zero
// time is returned when the value is absent or unparseable.
func (r Row) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v.UTC()
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	}
	return time.Time{}
}

func parseTime(s string) time.Time {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
