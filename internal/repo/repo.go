package repo

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/storage"
)

var (
	ErrSlugTaken       = errors.New("slug already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidImage    = errors.New("invalid image content")
)

// GormRepo is bound either to the pool or, inside Transaction, to one transaction.
type GormRepo struct {
	DB *gorm.DB
	// Blobs is optional; without it images are recorded by path only.
	Blobs storage.Disk

	tx *txState
}

type txState struct {
	written []string
	removed []string
}

// Transaction runs fn against a repo bound to a single transaction. Blobs
// written inside fn are removed when the transaction does not commit; blobs
// of deleted images are removed only after it does.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	state := &txState{}
	err := r.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&GormRepo{DB: db, Blobs: r.Blobs, tx: state})
	})
	if err != nil {
		r.dropBlobs(ctx, state.written)
		return err
	}
	r.dropBlobs(ctx, state.removed)
	return nil
}

func (r *GormRepo) dropBlobs(ctx context.Context, paths []string) {
	if r.Blobs == nil {
		return
	}
	l := logging.FromContext(ctx)
	for _, p := range paths {
		if err := r.Blobs.Delete(context.WithoutCancel(ctx), p); err != nil {
			l.Warn("blob_cleanup_failed", slog.String("path", p), slog.Any("error", err))
		}
	}
}

func (r *GormRepo) trackWritten(path string) {
	if r.tx != nil {
		r.tx.written = append(r.tx.written, path)
	}
}

func (r *GormRepo) trackRemoved(path string) {
	if r.tx != nil {
		r.tx.removed = append(r.tx.removed, path)
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
