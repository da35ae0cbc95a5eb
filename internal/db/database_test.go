package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_catalog/internal/models"
)

func TestWithForeignKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "catalog.db?_pragma=foreign_keys(1)", withForeignKeys("catalog.db"))
	assert.Equal(t, "file::memory:?cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file::memory:?cache=shared"))
	assert.Equal(t, "x.db?_pragma=foreign_keys(1)", withForeignKeys("x.db?_pragma=foreign_keys(1)"))
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)

	_, err = Open(context.Background(), "sqlite", "")
	assert.Error(t, err)
}

func TestMigrate_CascadesProductChildren(t *testing.T) {
	gdb, err := OpenSQLite(context.Background(), "file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	cat := models.Category{Name: "Shoes", Slug: "shoes"}
	require.NoError(t, gdb.Create(&cat).Error)

	p := models.Product{Name: "Boot", Slug: "boot", Price: 10, PriceWithDiscount: 9}
	require.NoError(t, gdb.Create(&p).Error)
	require.NoError(t, gdb.Model(&p).Association("Categories").Append(&cat))
	require.NoError(t, gdb.Create(&models.ProductImage{ProductID: p.ID, Enabled: true, Path: "a.png"}).Error)
	require.NoError(t, gdb.Create(&models.ProductOption{ProductID: p.ID, Title: "Size", Shape: models.ShapeSquare, Radius: "0", Kind: models.KindText, Values: []string{"40"}}).Error)

	require.NoError(t, gdb.Delete(&models.Product{}, p.ID).Error)

	var images, options, links int64
	require.NoError(t, gdb.Model(&models.ProductImage{}).Count(&images).Error)
	require.NoError(t, gdb.Model(&models.ProductOption{}).Count(&options).Error)
	require.NoError(t, gdb.Table("product_categories").Count(&links).Error)
	assert.Zero(t, images)
	assert.Zero(t, options)
	assert.Zero(t, links)

	var cats int64
	require.NoError(t, gdb.Model(&models.Category{}).Count(&cats).Error)
	assert.EqualValues(t, 1, cats)
}
