package models

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Enabled           bool      `gorm:"not null;default:false"      json:"enabled"`
	Name              string    `gorm:"not null"                    json:"name"`
	Slug              string    `gorm:"uniqueIndex;not null"        json:"slug"`
	Stock             int       `gorm:"not null;default:0"          json:"stock"`
	Description       string    `gorm:"type:text"                   json:"description"`
	Price             float64   `gorm:"not null"                    json:"price"`
	PriceWithDiscount float64   `gorm:"not null"                    json:"price_with_discount"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Images     []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"           json:"-"`
	Options    []ProductOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"           json:"-"`
	Categories []Category      `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"-"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null"     json:"slug"`
	UseInMenu bool      `gorm:"not null;default:false"   json:"use_in_menu"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	Enabled   bool      `gorm:"not null;default:true"    json:"enabled"`
	Path      string    `gorm:"not null"                 json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OptionShape string

const (
	ShapeSquare OptionShape = "square"
	ShapeCircle OptionShape = "circle"
)

type OptionKind string

const (
	KindText  OptionKind = "text"
	KindColor OptionKind = "color"
)

type ProductOption struct {
	ID        uint                        `gorm:"primaryKey;autoIncrement"             json:"id"`
	ProductID uint                        `gorm:"index;not null"                       json:"product_id"`
	Title     string                      `gorm:"not null"                             json:"title"`
	Shape     OptionShape                 `gorm:"type:varchar(16);not null;default:'square'" json:"shape"`
	Radius    string                      `gorm:"not null;default:'0'"                 json:"radius"`
	Kind      OptionKind                  `gorm:"type:varchar(16);not null;default:'text'"   json:"type"`
	Values    datatypes.JSONSlice[string] `gorm:"column:option_values;not null"        json:"values"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"column:firstname;not null" json:"firstname"`
	Surname      string    `gorm:"not null"                 json:"surname"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &ProductImage{}, &ProductOption{}}
}
