package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/storage"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

const imageDir = "products"

// ImagePath derives a storage path from the slug, a time-plus-random token and the content subtype.
func ImagePath(slug, subtype string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%s-%d-%s.%s", imageDir, slug, now.UnixMilli(), token, subtype)
}

// CreateProduct inserts the product row, then its categories, images and
// options. Call it through Transaction so a failing child undoes the row.
func (r *GormRepo) CreateProduct(ctx context.Context, in transport.ProductInput) (*models.Product, error) {
	db := r.DB.WithContext(ctx)

	p := in.Fields.NewProduct()
	if err := r.ensureSlugFree(ctx, p.Slug, 0); err != nil {
		return nil, err
	}
	if err := db.Omit(clause.Associations).Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	if in.CategoryIDs != nil && len(*in.CategoryIDs) > 0 {
		if err := r.replaceCategories(ctx, &p, *in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	for _, img := range in.Images {
		if _, err := r.addImage(ctx, &p, img); err != nil {
			return nil, err
		}
	}

	for _, opt := range in.Options {
		if _, err := r.addOption(ctx, &p, opt); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

// UpdateProduct applies a diff-style payload to an existing product.
// A missing product yields gorm.ErrRecordNotFound.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, in transport.ProductInput) (*models.Product, error) {
	db := r.DB.WithContext(ctx)

	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}

	updates := in.Fields.Updates()
	if slug, ok := updates["slug"].(string); ok && slug != p.Slug {
		if err := r.ensureSlugFree(ctx, slug, p.ID); err != nil {
			return nil, err
		}
	}
	if len(updates) > 0 {
		if err := db.Model(&p).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return nil, ErrSlugTaken
			}
			return nil, err
		}
		if slug, ok := updates["slug"].(string); ok {
			p.Slug = slug
		}
	}

	if in.CategoryIDs != nil {
		if err := r.replaceCategories(ctx, &p, *in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	for _, img := range in.Images {
		switch img.Intent {
		case transport.IntentDelete:
			if err := r.removeImage(ctx, p.ID, img.ID); err != nil {
				return nil, err
			}
		case transport.IntentCreate:
			if _, err := r.addImage(ctx, &p, img); err != nil {
				return nil, err
			}
		}
	}

	for _, opt := range in.Options {
		switch opt.Intent {
		case transport.IntentDelete:
			if err := db.Where("id = ? AND product_id = ?", opt.ID, p.ID).Delete(&models.ProductOption{}).Error; err != nil {
				return nil, err
			}
		case transport.IntentModify:
			changes := opt.Updates()
			if len(changes) == 0 {
				continue
			}
			if err := db.Model(&models.ProductOption{}).Where("id = ? AND product_id = ?", opt.ID, p.ID).Updates(changes).Error; err != nil {
				return nil, err
			}
		case transport.IntentCreate:
			if _, err := r.addOption(ctx, &p, opt); err != nil {
				return nil, err
			}
		}
	}

	return &p, nil
}

// DeleteProduct removes the product row; images, options and category
// links go with it through the schema's cascading foreign keys.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)

	var paths []string
	if err := db.Model(&models.ProductImage{}).Where("product_id = ?", id).Pluck("path", &paths).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, p := range paths {
		r.trackRemoved(p)
	}
	return nil
}

func (r *GormRepo) ensureSlugFree(ctx context.Context, slug string, exceptID uint) error {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}
	return nil
}

// replaceCategories makes ids the product's exact category set; an empty list clears it.
func (r *GormRepo) replaceCategories(ctx context.Context, p *models.Product, ids []uint) error {
	assoc := r.DB.WithContext(ctx).Model(p).Association("Categories")
	if len(ids) == 0 {
		return assoc.Clear()
	}

	var cats []models.Category
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return err
	}
	if len(cats) != len(ids) {
		return fmt.Errorf("%w: %v", ErrUnknownCategory, missingIDs(ids, cats))
	}
	return assoc.Replace(&cats)
}

func missingIDs(want []uint, got []models.Category) []uint {
	found := make(map[uint]bool, len(got))
	for _, c := range got {
		found[c.ID] = true
	}
	var out []uint
	for _, id := range want {
		if !found[id] {
			out = append(out, id)
		}
	}
	return out
}

func (r *GormRepo) addImage(ctx context.Context, p *models.Product, in transport.ImageInput) (*models.ProductImage, error) {
	img := models.ProductImage{
		ProductID: p.ID,
		Enabled:   true,
		Path:      ImagePath(p.Slug, in.Subtype(), time.Now()),
	}

	if r.Blobs != nil {
		content, err := storage.DecodeContent(in.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		if err := r.Blobs.Put(ctx, img.Path, content); err != nil {
			return nil, err
		}
		r.trackWritten(img.Path)
	}

	if err := r.DB.WithContext(ctx).Create(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// removeImage deletes an image of productID; ids of other products are ignored.
func (r *GormRepo) removeImage(ctx context.Context, productID, imageID uint) error {
	db := r.DB.WithContext(ctx)

	var img models.ProductImage
	err := db.Where("id = ? AND product_id = ?", imageID, productID).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := db.Delete(&img).Error; err != nil {
		return err
	}
	r.trackRemoved(img.Path)
	return nil
}

func (r *GormRepo) addOption(ctx context.Context, p *models.Product, in transport.OptionInput) (*models.ProductOption, error) {
	opt := in.NewOption(p.ID)
	if err := r.DB.WithContext(ctx).Create(&opt).Error; err != nil {
		return nil, err
	}
	return &opt, nil
}
