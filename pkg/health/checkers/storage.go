package checkers

import (
	"context"
	"time"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/storage"
)

// StorageChecker pings whichever backend the storage adapter was opened
// with.
type StorageChecker struct {
	db storage.DB
}

func NewStorageChecker(db storage.DB) *StorageChecker {
	return &StorageChecker{db: db}
}

func (c *StorageChecker) Name() string { return "storage" }

func (c *StorageChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.db.Ping(ctx)
}
