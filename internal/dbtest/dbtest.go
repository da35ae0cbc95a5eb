// Package dbtest opens throwaway catalog stores for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/db"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
