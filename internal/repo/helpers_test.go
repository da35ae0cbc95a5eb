package repo

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/dbtest"
	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

func ptr[T any](v T) *T { return &v }

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.Open(t)}
}

func seedCategory(t *testing.T, r *GormRepo, slug string) models.Category {
	t.Helper()
	c := models.Category{Name: slug, Slug: slug}
	require.NoError(t, r.CreateCategory(context.Background(), &c))
	return c
}

func productReq(name, slug string, price float64) transport.ProductRequest {
	return transport.ProductRequest{
		Name:              ptr(name),
		Slug:              ptr(slug),
		Price:             ptr(price),
		PriceWithDiscount: ptr(price),
	}
}

func option(title string, values ...string) transport.OptionRequest {
	return transport.OptionRequest{Title: ptr(title), Values: ptr(values)}
}

func createProduct(t *testing.T, r *GormRepo, req transport.ProductRequest) *models.Product {
	t.Helper()
	p, err := tryCreate(r, req)
	require.NoError(t, err)
	return p
}

func tryCreate(r *GormRepo, req transport.ProductRequest) (*models.Product, error) {
	in, err := req.NormalizeCreate()
	if err != nil {
		return nil, err
	}
	var p *models.Product
	err = r.Transaction(context.Background(), func(tx *GormRepo) error {
		var err error
		p, err = tx.CreateProduct(context.Background(), in)
		return err
	})
	return p, err
}

func updateProduct(r *GormRepo, id uint, req transport.ProductRequest) error {
	in, err := req.NormalizeUpdate()
	if err != nil {
		return err
	}
	return r.Transaction(context.Background(), func(tx *GormRepo) error {
		_, err := tx.UpdateProduct(context.Background(), id, in)
		return err
	})
}

func loadProduct(t *testing.T, r *GormRepo, id uint) *models.Product {
	t.Helper()
	p, err := r.FindProduct(context.Background(), id)
	require.NoError(t, err)
	return p
}

func optionTitles(p *models.Product) []string {
	out := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		out = append(out, o.Title)
	}
	return out
}

func categoryIDs(p *models.Product) []uint {
	out := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		out = append(out, c.ID)
	}
	return out
}

var errForced = errors.New("forced option insert failure")

// failNthOptionInsert makes the n-th product_options insert on db fail.
func failNthOptionInsert(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	seen := 0
	name := "test:fail_option_insert"
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Schema == nil || tx.Statement.Schema.Table != "product_options" {
			return
		}
		seen++
		if seen == n {
			_ = tx.AddError(errForced)
		}
	}))
	t.Cleanup(func() { _ = db.Callback().Create().Remove(name) })
}

var gormNotFound = gorm.ErrRecordNotFound

func optKey(id uint) string {
	return "option[" + uintStr(id) + "]"
}

func idsCSV(ids ...uint) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += uintStr(id)
	}
	return out
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
