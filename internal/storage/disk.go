// Package storage keeps product image content on a local directory or an
// S3-compatible bucket.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/online_catalog/internal/config"
)

var ErrNotExist = errors.New("storage: object does not exist")

type Disk interface {
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
}

// New builds the configured disk. The "none" driver returns a nil Disk.
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocalDisk(cfg.LocalRoot)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// DecodeContent accepts raw base64 or a data URL ("data:image/png;base64,...").
func DecodeContent(content string) ([]byte, error) {
	payload := strings.TrimSpace(content)
	if strings.HasPrefix(payload, "data:") {
		meta, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, errors.New("storage: data url is not base64 encoded")
		}
		payload = data
	}
	if b, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("storage: decode content: %w", err)
	}
	return b, nil
}
