package transport

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/Skotchmaster/online_catalog/internal/models"
)

type ImageView struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

// ProductView is a product denormalized with its category ids, images and options.
type ProductView struct {
	ID                uint                   `json:"id"`
	Enabled           bool                   `json:"enabled"`
	Name              string                 `json:"name"`
	Slug              string                 `json:"slug"`
	Stock             int                    `json:"stock"`
	Description       string                 `json:"description"`
	Price             float64                `json:"price"`
	PriceWithDiscount float64                `json:"price_with_discount"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	CategoryIDs       []uint                 `json:"category_ids"`
	Images            []ImageView            `json:"images"`
	Options           []models.ProductOption `json:"options"`

	fields []string
}

func NewProductView(p models.Product, fields []string) ProductView {
	v := ProductView{
		ID:                p.ID,
		Enabled:           p.Enabled,
		Name:              p.Name,
		Slug:              p.Slug,
		Stock:             p.Stock,
		Description:       p.Description,
		Price:             p.Price,
		PriceWithDiscount: p.PriceWithDiscount,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		CategoryIDs:       make([]uint, 0, len(p.Categories)),
		Images:            make([]ImageView, 0, len(p.Images)),
		Options:           p.Options,
		fields:            fields,
	}
	for _, c := range p.Categories {
		v.CategoryIDs = append(v.CategoryIDs, c.ID)
	}
	slices.Sort(v.CategoryIDs)
	for _, img := range p.Images {
		v.Images = append(v.Images, ImageView{ID: img.ID, Content: img.Path})
	}
	if v.Options == nil {
		v.Options = []models.ProductOption{}
	}
	return v
}

// MarshalJSON drops scalar attributes outside the projection; association
// fields are always present.
func (v ProductView) MarshalJSON() ([]byte, error) {
	type plain ProductView
	if len(v.fields) == 0 {
		return json.Marshal(plain(v))
	}
	return project(plain(v), v.fields, ProductColumns)
}

type SearchResult[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
}

// NewSearchResult echoes pagination; the all-rows sentinel reports the total as limit and page 1.
func NewSearchResult[T any](data []T, total int64, p Page) SearchResult[T] {
	res := SearchResult[T]{Data: data, Total: total, Limit: p.Limit, Page: p.Page}
	if p.All() {
		res.Limit = int(total)
		res.Page = 1
	}
	if res.Data == nil {
		res.Data = []T{}
	}
	return res
}

type CategoryView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	UseInMenu bool   `json:"use_in_menu"`

	fields []string
}

func NewCategoryView(c models.Category, fields []string) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, UseInMenu: c.UseInMenu, fields: fields}
}

func (v CategoryView) MarshalJSON() ([]byte, error) {
	type plain CategoryView
	if len(v.fields) == 0 {
		return json.Marshal(plain(v))
	}
	return project(plain(v), v.fields, CategoryColumns)
}

type UserView struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstname"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
}

func NewUserView(u models.User) UserView {
	return UserView{ID: u.ID, FirstName: u.FirstName, Surname: u.Surname, Email: u.Email}
}

func project(v any, keep, projectable []string) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for _, col := range projectable {
		if !slices.Contains(keep, col) {
			delete(m, col)
		}
	}
	return json.Marshal(m)
}
