package config

import (
	"fmt"
	"slices"
)

// Validate reports the first setting that makes the service unable to start.
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required env DATABASE_URL")
	}
	if !slices.Contains([]string{"postgres", "sqlite"}, c.DBDriver) {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Storage.Driver {
	case "none", "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("missing required env S3_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}
