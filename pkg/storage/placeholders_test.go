package storage

import "testing"

func TestNumbered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT id FROM accounts",
			want:  "SELECT id FROM accounts",
		},
		{
			name:  "single placeholder",
			query: "SELECT id FROM accounts WHERE email = ?",
			want:  "SELECT id FROM accounts WHERE email = $1",
		},
		{
			name:  "multiple placeholders keep source order",
			query: "INSERT INTO history_records (account_id, cv_text, job_description) VALUES (?, ?, ?)",
			want:  "INSERT INTO history_records (account_id, cv_text, job_description) VALUES ($1, $2, $3)",
		},
		{
			name:  "placeholders across clauses",
			query: "UPDATE accounts SET name = ?, bio = ? WHERE id = ?",
			want:  "UPDATE accounts SET name = $1, bio = $2 WHERE id = $3",
		},
		{
			name:  "question mark inside literal untouched",
			query: "SELECT ? WHERE note = 'what?' AND id = ?",
			want:  "SELECT $1 WHERE note = 'what?' AND id = $2",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := numbered(tc.query); got != tc.want {
				t.Fatalf("numbered(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestIsInsert(t *testing.T) {
	t.Parallel()

	if !isInsert("  insert into accounts (email) values (?)") {
		t.Fatal("lowercase insert not detected")
	}
	if isInsert("UPDATE accounts SET name = ?") {
		t.Fatal("update misdetected as insert")
	}
}
