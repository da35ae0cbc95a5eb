package transport

import (
	"cmp"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Skotchmaster/online_catalog/internal/util"
)

const (
	DefaultLimit = 12
	// AllRows as a limit disables pagination.
	AllRows = -1
)

// ProductColumns may appear in a search projection.
var ProductColumns = []string{
	"id", "enabled", "name", "slug", "stock", "description",
	"price", "price_with_discount", "created_at", "updated_at",
}

var CategoryColumns = []string{"id", "name", "slug", "use_in_menu"}

type Page struct {
	Limit int
	Page  int
}

func (p Page) All() bool { return p.Limit == AllRows }

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

type PriceRange struct {
	Min float64
	Max float64
}

// OptionFilter requires the option with OptionID to hold every value in Values.
type OptionFilter struct {
	OptionID uint
	Values   []string
}

type SearchFilter struct {
	Page
	Fields      []string
	Match       string
	CategoryIDs []uint
	Price       *PriceRange
	Options     []OptionFilter
}

type CategoryFilter struct {
	Page
	Fields    []string
	UseInMenu *bool
}

const optionPrefix = "option["

var optionParam = regexp.MustCompile(`^option\[(\d+)\]$`)

func ParseSearchFilter(q url.Values) (SearchFilter, error) {
	var (
		f   SearchFilter
		err error
	)
	if f.Page, err = parsePage(q); err != nil {
		return f, err
	}
	if f.Fields, err = parseFields(q.Get("fields"), ProductColumns); err != nil {
		return f, err
	}
	f.Match = strings.TrimSpace(q.Get("match"))
	if f.CategoryIDs, err = parseIDs("category_ids", q.Get("category_ids")); err != nil {
		return f, err
	}
	if raw := strings.TrimSpace(q.Get("price-range")); raw != "" {
		pr, err := parsePriceRange(raw)
		if err != nil {
			return f, err
		}
		f.Price = &pr
	}

	// Every key starting with option[ is a filter and must parse.
	for key, vals := range q {
		if !strings.HasPrefix(key, optionPrefix) {
			continue
		}
		m := optionParam.FindStringSubmatch(key)
		if m == nil {
			return f, invalidf("%s: option filters look like option[<id>]", key)
		}
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || id == 0 {
			return f, invalidf("%s: option id must be a positive integer", key)
		}
		var values []string
		for _, v := range vals {
			values = append(values, splitCSV(v)...)
		}
		if len(values) == 0 {
			return f, invalidf("%s: at least one value is required", key)
		}
		f.Options = append(f.Options, OptionFilter{OptionID: uint(id), Values: values})
	}
	slices.SortFunc(f.Options, func(a, b OptionFilter) int { return cmp.Compare(a.OptionID, b.OptionID) })

	return f, nil
}

func ParseCategoryFilter(q url.Values) (CategoryFilter, error) {
	var (
		f   CategoryFilter
		err error
	)
	if f.Page, err = parsePage(q); err != nil {
		return f, err
	}
	if f.Fields, err = parseFields(q.Get("fields"), CategoryColumns); err != nil {
		return f, err
	}
	if raw := strings.TrimSpace(q.Get("use_in_menu")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, invalidf("use_in_menu must be true or false")
		}
		f.UseInMenu = &b
	}
	return f, nil
}

// ParseFullText reads q, page and size for the full-text endpoint. Paging
// is clamped rather than rejected; only an empty query is an error.
func ParseFullText(q url.Values) (string, Page, error) {
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		return "", Page{}, invalidf("q is required")
	}
	page, size := util.Clamp(
		util.ParseIntDefault(q.Get("page"), 1),
		util.ParseIntDefault(q.Get("size"), util.DefaultPageSize),
	)
	return query, Page{Limit: size, Page: page}, nil
}

func parsePage(q url.Values) (Page, error) {
	p := Page{Limit: DefaultLimit, Page: 1}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || (n < 1 && n != AllRows) {
			return p, invalidf("limit must be a positive integer or -1")
		}
		p.Limit = n
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, invalidf("page must be a positive integer")
		}
		p.Page = n
	}
	if p.All() {
		p.Page = 1
	}
	return p, nil
}

func parseFields(raw string, allowed []string) ([]string, error) {
	names := splitCSV(raw)
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(allowed, n) {
			return nil, invalidf("fields: unknown field %q", n)
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func parseIDs(name, raw string) ([]uint, error) {
	parts := splitCSV(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil || id == 0 {
			return nil, invalidf("%s: %q is not an id", name, p)
		}
		if !slices.Contains(out, uint(id)) {
			out = append(out, uint(id))
		}
	}
	return out, nil
}

func parsePriceRange(raw string) (PriceRange, error) {
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return PriceRange{}, invalidf("price-range must look like min-max")
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return PriceRange{}, invalidf("price-range: bad minimum %q", lo)
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return PriceRange{}, invalidf("price-range: bad maximum %q", hi)
	}
	if minV > maxV {
		return PriceRange{}, invalidf("price-range: minimum %v exceeds maximum %v", minV, maxV)
	}
	return PriceRange{Min: minV, Max: maxV}, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseID reads a path id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id %q is not a positive integer", ErrInvalidPayload, raw)
	}
	return uint(id), nil
}
