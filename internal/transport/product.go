package transport

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/Skotchmaster/online_catalog/internal/models"
)

// ErrInvalidPayload marks request bodies that fail validation or normalization.
var ErrInvalidPayload = errors.New("invalid payload")

type ProductRequest struct {
	Enabled           *bool    `json:"enabled"`
	Name              *string  `json:"name"                validate:"omitempty,min=1"`
	Slug              *string  `json:"slug"                validate:"omitempty,min=1"`
	Stock             *int     `json:"stock"               validate:"omitempty,gte=0"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price"               validate:"omitempty,gte=0"`
	PriceWithDiscount *float64 `json:"price_with_discount" validate:"omitempty,gte=0"`

	// nil means the key was absent; a non-nil empty slice clears the set.
	CategoryIDs *[]uint `json:"category_ids" validate:"omitempty,dive,gt=0"`

	Images  []ImageRequest  `json:"images"  validate:"dive"`
	Options []OptionRequest `json:"options" validate:"dive"`
}

type ImageRequest struct {
	ID      uint   `json:"id"`
	Deleted bool   `json:"deleted"`
	Type    string `json:"type"    validate:"omitempty,contains=/"`
	Content string `json:"content"`
}

type OptionRequest struct {
	ID      uint      `json:"id"`
	Deleted bool      `json:"deleted"`
	Title   *string   `json:"title"`
	Shape   *string   `json:"shape"  validate:"omitempty,oneof=square circle"`
	Radius  *string   `json:"radius"`
	Type    *string   `json:"type"   validate:"omitempty,oneof=text color"`
	Values  *[]string `json:"values"`
	Value   *[]string `json:"value"`
}

// Intent is what a collection entry of an update payload asks for.
type Intent int

const (
	IntentIgnore Intent = iota
	IntentCreate
	IntentModify
	IntentDelete
)

func (i Intent) String() string {
	switch i {
	case IntentCreate:
		return "create"
	case IntentModify:
		return "modify"
	case IntentDelete:
		return "delete"
	default:
		return "ignore"
	}
}

// ProductInput is the canonical shape the synchronizer works on.
type ProductInput struct {
	Fields      ProductFields
	CategoryIDs *[]uint
	Images      []ImageInput
	Options     []OptionInput
}

type ProductFields struct {
	Enabled           *bool
	Name              *string
	Slug              *string
	Stock             *int
	Description       *string
	Price             *float64
	PriceWithDiscount *float64
}

type ImageInput struct {
	Intent      Intent
	ID          uint
	ContentType string
	Content     string
}

// Subtype is the part of the declared content type after the slash ("png" for "image/png").
func (i ImageInput) Subtype() string {
	_, sub, _ := strings.Cut(i.ContentType, "/")
	sub, _, _ = strings.Cut(sub, ";")
	return strings.TrimSpace(sub)
}

type OptionInput struct {
	Intent Intent
	ID     uint
	Title  *string
	Shape  *models.OptionShape
	Radius *string
	Kind   *models.OptionKind
	Values *[]string
}

// NormalizeCreate checks a full payload and converts every collection entry into a creation.
func (r ProductRequest) NormalizeCreate() (ProductInput, error) {
	if err := validate.Struct(r); err != nil {
		return ProductInput{}, invalid(err)
	}
	switch {
	case r.Name == nil:
		return ProductInput{}, invalidf("name is required")
	case r.Slug == nil:
		return ProductInput{}, invalidf("slug is required")
	case r.Price == nil:
		return ProductInput{}, invalidf("price is required")
	case r.PriceWithDiscount == nil:
		return ProductInput{}, invalidf("price_with_discount is required")
	}

	in := ProductInput{Fields: r.fields(), CategoryIDs: dedupe(r.CategoryIDs)}
	for i, img := range r.Images {
		entry := ImageInput{Intent: IntentCreate, ContentType: img.Type, Content: img.Content}
		if entry.Subtype() == "" {
			return ProductInput{}, invalidf("images[%d]: type must look like image/png", i)
		}
		in.Images = append(in.Images, entry)
	}
	for i, opt := range r.Options {
		entry := opt.canonical(IntentCreate)
		if err := entry.checkCreate(); err != nil {
			return ProductInput{}, invalidf("options[%d]: %v", i, err)
		}
		in.Options = append(in.Options, entry)
	}
	return in, nil
}

// NormalizeUpdate checks a partial payload and classifies every collection entry by intent.
func (r ProductRequest) NormalizeUpdate() (ProductInput, error) {
	if err := validate.Struct(r); err != nil {
		return ProductInput{}, invalid(err)
	}

	in := ProductInput{Fields: r.fields(), CategoryIDs: dedupe(r.CategoryIDs)}
	for i, img := range r.Images {
		entry := ImageInput{ID: img.ID, ContentType: img.Type, Content: img.Content}
		switch {
		case img.ID != 0 && img.Deleted:
			entry.Intent = IntentDelete
		case img.ID == 0 && img.Content != "":
			entry.Intent = IntentCreate
			if entry.Subtype() == "" {
				return ProductInput{}, invalidf("images[%d]: type must look like image/png", i)
			}
		}
		in.Images = append(in.Images, entry)
	}
	for i, opt := range r.Options {
		var intent Intent
		switch {
		case opt.ID != 0 && opt.Deleted:
			intent = IntentDelete
		case opt.ID != 0:
			intent = IntentModify
		case opt.Title != nil && *opt.Title != "":
			intent = IntentCreate
		}
		entry := opt.canonical(intent)
		if intent == IntentCreate {
			if err := entry.checkCreate(); err != nil {
				return ProductInput{}, invalidf("options[%d]: %v", i, err)
			}
		}
		in.Options = append(in.Options, entry)
	}
	return in, nil
}

func (r ProductRequest) fields() ProductFields {
	return ProductFields{
		Enabled:           r.Enabled,
		Name:              r.Name,
		Slug:              r.Slug,
		Stock:             r.Stock,
		Description:       r.Description,
		Price:             r.Price,
		PriceWithDiscount: r.PriceWithDiscount,
	}
}

// canonical collapses the "value" and "values" spellings into one field;
// "value" wins when a client sends both.
func (o OptionRequest) canonical(intent Intent) OptionInput {
	out := OptionInput{Intent: intent, ID: o.ID, Title: o.Title, Radius: o.Radius}
	if intent == IntentCreate {
		out.ID = 0
	}
	if o.Shape != nil {
		s := models.OptionShape(*o.Shape)
		out.Shape = &s
	}
	if o.Type != nil {
		k := models.OptionKind(*o.Type)
		out.Kind = &k
	}
	switch {
	case o.Value != nil:
		out.Values = o.Value
	case o.Values != nil:
		out.Values = o.Values
	}
	return out
}

func (o OptionInput) checkCreate() error {
	if o.Title == nil || *o.Title == "" {
		return errors.New("title is required")
	}
	if o.Values == nil {
		return errors.New("values are required")
	}
	return nil
}

// NewProduct builds the row inserted on create.
func (f ProductFields) NewProduct() models.Product {
	p := models.Product{
		Name:              deref(f.Name),
		Slug:              deref(f.Slug),
		Stock:             deref(f.Stock),
		Description:       deref(f.Description),
		Price:             deref(f.Price),
		PriceWithDiscount: deref(f.PriceWithDiscount),
	}
	if f.Enabled != nil {
		p.Enabled = *f.Enabled
	}
	return p
}

// Updates lists the columns an update payload sets, zero values included.
func (f ProductFields) Updates() map[string]any {
	out := map[string]any{}
	if f.Enabled != nil {
		out["enabled"] = *f.Enabled
	}
	if f.Name != nil {
		out["name"] = *f.Name
	}
	if f.Slug != nil {
		out["slug"] = *f.Slug
	}
	if f.Stock != nil {
		out["stock"] = *f.Stock
	}
	if f.Description != nil {
		out["description"] = *f.Description
	}
	if f.Price != nil {
		out["price"] = *f.Price
	}
	if f.PriceWithDiscount != nil {
		out["price_with_discount"] = *f.PriceWithDiscount
	}
	return out
}

// NewOption builds the row inserted for a create-intent option.
func (o OptionInput) NewOption(productID uint) models.ProductOption {
	opt := models.ProductOption{
		ProductID: productID,
		Title:     deref(o.Title),
		Shape:     models.ShapeSquare,
		Radius:    "0",
		Kind:      models.KindText,
		Values:    []string{},
	}
	if o.Shape != nil {
		opt.Shape = *o.Shape
	}
	if o.Radius != nil {
		opt.Radius = *o.Radius
	}
	if o.Kind != nil {
		opt.Kind = *o.Kind
	}
	if o.Values != nil {
		opt.Values = append(opt.Values, *o.Values...)
	}
	return opt
}

// Updates lists the option columns a modify-intent entry sets. The id is never among them.
func (o OptionInput) Updates() map[string]any {
	out := map[string]any{}
	if o.Title != nil {
		out["title"] = *o.Title
	}
	if o.Shape != nil {
		out["shape"] = *o.Shape
	}
	if o.Radius != nil {
		out["radius"] = *o.Radius
	}
	if o.Kind != nil {
		out["kind"] = *o.Kind
	}
	if o.Values != nil {
		out["option_values"] = datatypes.JSONSlice[string](*o.Values)
	}
	return out
}

func dedupe(ids *[]uint) *[]uint {
	if ids == nil {
		return nil
	}
	seen := make(map[uint]struct{}, len(*ids))
	out := make([]uint, 0, len(*ids))
	for _, id := range *ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return &out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidPayload}, args...)...)
}
