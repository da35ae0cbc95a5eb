package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

// SearchProducts composes every filter of f into one query over products.
// Category and option filters are id subqueries, so a product matching
// several categories still yields a single row and the count stays exact.
func (r *GormRepo) SearchProducts(ctx context.Context, f transport.SearchFilter) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.Match != "" {
		like := "%" + f.Match + "%"
		q = q.Where("(products.name LIKE ? OR products.description LIKE ?)", like, like)
	}

	if len(f.CategoryIDs) > 0 {
		inCategories := r.DB.Table("product_categories").
			Select("product_categories.product_id").
			Where("product_categories.category_id IN ?", f.CategoryIDs)
		q = q.Where("products.id IN (?)", inCategories)
	}

	if f.Price != nil {
		q = q.Where("products.price BETWEEN ? AND ?", f.Price.Min, f.Price.Max)
	}

	for _, of := range f.Options {
		withOption := r.DB.Model(&models.ProductOption{}).
			Select("product_options.product_id").
			Where("product_options.id = ?", of.OptionID)
		for _, v := range of.Values {
			withOption = withOption.Where(datatypes.JSONArrayQuery("option_values").Contains(v))
		}
		q = q.Where("products.id IN (?)", withOption)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	find := withAssociations(q).Order("products.id ASC")
	if len(f.Fields) > 0 {
		find = find.Select(selectColumns(f.Fields))
	}
	if !f.All() {
		find = find.Offset(f.Offset()).Limit(f.Limit)
	}

	items := make([]models.Product, 0)
	if err := find.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// FindProduct loads one product with its associations.
func (r *GormRepo) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := withAssociations(r.DB.WithContext(ctx)).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductUpdatedAt reads only the product's last modification time.
func (r *GormRepo) ProductUpdatedAt(ctx context.Context, id uint) (time.Time, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Select("id", "updated_at").First(&p, id).Error; err != nil {
		return time.Time{}, err
	}
	return p.UpdatedAt, nil
}

func withAssociations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.id ASC") }).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("product_options.id ASC") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id ASC") })
}

// selectColumns qualifies a projection and always keeps the id, which the
// association preloads key on.
func selectColumns(fields []string) []string {
	cols := []string{"products.id"}
	for _, f := range fields {
		if f != "id" {
			cols = append(cols, "products."+f)
		}
	}
	return cols
}
