package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid history payload")
	ErrUnavailable  = errors.New("history storage unavailable")
)

// Record is a persisted snapshot of one completed analysis run. Records are
// immutable once written and only ever visible to their owner.
type Record struct {
	ID             int64           `json:"id"`
	AccountID      int64           `json:"-"`
	CVText         string          `json:"cvText"`
	JobDescription string          `json:"jobDescription"`
	Analysis       json.RawMessage `json:"analysis"`
	SchemaVersion  int             `json:"schemaVersion"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Repository abstracts persistence of history records. Every read and delete
// is owner-scoped.
type Repository interface {
	Insert(ctx context.Context, r Record) (int64, error)
	ListByOwner(ctx context.Context, accountID int64) ([]Record, error)
	DeleteOwned(ctx context.Context, accountID, id int64) error
}
