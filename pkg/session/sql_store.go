package session

import (
	"context"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/storage"
)

// SQLStore implements Store on top of the storage adapter.
type SQLStore struct {
	db storage.DB
}

func NewSQLStore(db storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, sess Session) error {
	_, err := s.db.Run(ctx, `
		INSERT INTO sessions (id, account_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.AccountID, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row, err := s.db.Get(ctx, `
		SELECT id, account_id, created_at, expires_at FROM sessions WHERE id = ?
	`, id)
	if err != nil {
		return Session{}, err
	}
	if row == nil {
		return Session{}, ErrNoSession
	}
	return Session{
		ID:        row.String("id"),
		AccountID: row.Int64("account_id"),
		CreatedAt: row.Time("created_at"),
		ExpiresAt: row.Time("expires_at"),
	}, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Run(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}
