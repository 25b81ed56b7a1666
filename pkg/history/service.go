package history

import (
	"context"
	"encoding/json"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/ai"
)

// Service implements the append-only history of analysis runs.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append stores a new record. Every analysis run creates a fresh row; there
// is no upsert. Only the id is returned to spare a redundant round-trip.
func (s *Service) Append(ctx context.Context, accountID int64, cvText, jobDescription string, analysis json.RawMessage) (int64, error) {
	if cvText == "" || jobDescription == "" {
		return 0, ErrInvalidInput
	}
	if len(analysis) == 0 || !json.Valid(analysis) {
		return 0, ErrInvalidInput
	}
	id, err := s.repo.Insert(ctx, Record{
		AccountID:      accountID,
		CVText:         cvText,
		JobDescription: jobDescription,
		Analysis:       analysis,
		SchemaVersion:  ai.SchemaVersion,
	})
	if err != nil {
		return 0, ErrUnavailable
	}
	return id, nil
}

// List returns the account's records, newest first.
func (s *Service) List(ctx context.Context, accountID int64) ([]Record, error) {
	records, err := s.repo.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, ErrUnavailable
	}
	return records, nil
}

// Remove deletes the record if it belongs to the account. Deleting a
// non-existent or foreign-owned id succeeds silently, so callers cannot
// probe for other accounts' record ids.
func (s *Service) Remove(ctx context.Context, accountID, id int64) error {
	if err := s.repo.DeleteOwned(ctx, accountID, id); err != nil {
		return ErrUnavailable
	}
	return nil
}
