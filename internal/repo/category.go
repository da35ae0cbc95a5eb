package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

func (r *GormRepo) SearchCategories(ctx context.Context, f transport.CategoryFilter) (int64, []models.Category, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{})
	if f.UseInMenu != nil {
		q = q.Where("use_in_menu = ?", *f.UseInMenu)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	find := q.Order("id ASC")
	if len(f.Fields) > 0 {
		find = find.Select(f.Fields)
	}
	if !f.All() {
		find = find.Offset(f.Offset()).Limit(f.Limit)
	}

	items := make([]models.Category, 0)
	if err := find.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := r.categorySlugFree(ctx, c.Slug, 0); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *GormRepo) PatchCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	db := r.DB.WithContext(ctx)

	var c models.Category
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil && *req.Slug != c.Slug {
		if err := r.categorySlugFree(ctx, *req.Slug, c.ID); err != nil {
			return nil, err
		}
		updates["slug"] = *req.Slug
	}
	if req.UseInMenu != nil {
		updates["use_in_menu"] = *req.UseInMenu
	}
	if len(updates) == 0 {
		return &c, nil
	}

	if err := db.Model(&c).Updates(updates).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return r.GetCategory(ctx, id)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) categorySlugFree(ctx context.Context, slug string, exceptID uint) error {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrSlugTaken
	}
	return nil
}
