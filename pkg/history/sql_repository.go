package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/storage"
)

// SQLRepository implements Repository on top of the storage adapter.
type SQLRepository struct {
	db storage.DB
}

func NewSQLRepository(db storage.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Insert(ctx context.Context, rec Record) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.Run(ctx, `
		INSERT INTO history_records (account_id, cv_text, job_description, analysis, schema_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.AccountID, rec.CVText, rec.JobDescription, string(rec.Analysis), rec.SchemaVersion, rec.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.InsertedID, nil
}

func (r *SQLRepository) ListByOwner(ctx context.Context, accountID int64) ([]Record, error) {
	rows, err := r.db.All(ctx, `
		SELECT id, account_id, cv_text, job_description, analysis, schema_version, created_at
		FROM history_records
		WHERE account_id = ?
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{
			ID:             row.Int64("id"),
			AccountID:      row.Int64("account_id"),
			CVText:         row.String("cv_text"),
			JobDescription: row.String("job_description"),
			Analysis:       json.RawMessage(row.String("analysis")),
			SchemaVersion:  row.Int("schema_version"),
			CreatedAt:      row.Time("created_at"),
		})
	}
	return out, nil
}

// DeleteOwned removes the record only when it belongs to accountID. A
// non-existent or foreign-owned id deletes nothing and reports no error.
func (r *SQLRepository) DeleteOwned(ctx context.Context, accountID, id int64) error {
	_, err := r.db.Run(ctx, `DELETE FROM history_records WHERE id = ? AND account_id = ?`, id, accountID)
	return err
}
