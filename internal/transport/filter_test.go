package transport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchFilter_Defaults(t *testing.T) {
	t.Parallel()

	f, err := ParseSearchFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 1, f.Page.Page)
	assert.Zero(t, f.Offset())
	assert.Nil(t, f.Fields)
	assert.Nil(t, f.CategoryIDs)
	assert.Nil(t, f.Price)
	assert.Empty(t, f.Options)
}

func TestParseSearchFilter_AllFilters(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"limit":        {"5"},
		"page":         {"3"},
		"fields":       {"name, price,name"},
		"match":        {"  boot "},
		"category_ids": {"2,1,2"},
		"price-range":  {"10-50.5"},
		"option[7]":    {"red,blue"},
		"option[3]":    {"40", "41"},
		"ignored":      {"x"},
	}

	f, err := ParseSearchFilter(q)
	require.NoError(t, err)
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, 10, f.Offset())
	assert.Equal(t, []string{"name", "price"}, f.Fields)
	assert.Equal(t, "boot", f.Match)
	assert.Equal(t, []uint{2, 1}, f.CategoryIDs)
	require.NotNil(t, f.Price)
	assert.Equal(t, PriceRange{Min: 10, Max: 50.5}, *f.Price)
	assert.Equal(t, []OptionFilter{
		{OptionID: 3, Values: []string{"40", "41"}},
		{OptionID: 7, Values: []string{"red", "blue"}},
	}, f.Options)
}

func TestParseSearchFilter_AllRowsSentinel(t *testing.T) {
	t.Parallel()

	f, err := ParseSearchFilter(url.Values{"limit": {"-1"}, "page": {"4"}})
	require.NoError(t, err)
	assert.True(t, f.All())
	assert.Equal(t, 1, f.Page.Page)
}

func TestParseSearchFilter_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    url.Values
	}{
		{"limit not a number", url.Values{"limit": {"ten"}}},
		{"limit zero", url.Values{"limit": {"0"}}},
		{"limit below sentinel", url.Values{"limit": {"-2"}}},
		{"page zero", url.Values{"page": {"0"}}},
		{"category not numeric", url.Values{"category_ids": {"1,x"}}},
		{"category zero", url.Values{"category_ids": {"0"}}},
		{"range without dash", url.Values{"price-range": {"10"}}},
		{"range bad min", url.Values{"price-range": {"a-10"}}},
		{"range bad max", url.Values{"price-range": {"10-b"}}},
		{"range inverted", url.Values{"price-range": {"50-10"}}},
		{"option id not numeric", url.Values{"option[abc]": {"red"}}},
		{"option id empty", url.Values{"option[]": {"red"}}},
		{"option id zero", url.Values{"option[0]": {"red"}}},
		{"option key nested", url.Values{"option[1][]": {"zzz"}}},
		{"option key unclosed", url.Values{"option[abc": {"1"}}},
		{"option key trailing", url.Values{"option[1]x": {"red"}}},
		{"option without values", url.Values{"option[9]": {""}}},
		{"option only separators", url.Values{"option[9]": {" , "}}},
		{"unknown field", url.Values{"fields": {"name,password"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSearchFilter(tt.q)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestParseCategoryFilter(t *testing.T) {
	t.Parallel()

	f, err := ParseCategoryFilter(url.Values{"use_in_menu": {"true"}, "fields": {"name,slug"}, "limit": {"-1"}})
	require.NoError(t, err)
	require.NotNil(t, f.UseInMenu)
	assert.True(t, *f.UseInMenu)
	assert.Equal(t, []string{"name", "slug"}, f.Fields)
	assert.True(t, f.All())

	_, err = ParseCategoryFilter(url.Values{"use_in_menu": {"sometimes"}})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParseCategoryFilter(url.Values{"fields": {"price"}})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := ParseID("12")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidPayload, raw)
	}
}

func TestParseFullText(t *testing.T) {
	t.Parallel()

	_, _, err := ParseFullText(url.Values{})
	require.ErrorIs(t, err, ErrInvalidPayload)

	q, p, err := ParseFullText(url.Values{"q": {" shirt "}, "page": {"0"}, "size": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, "shirt", q)
	assert.Equal(t, Page{Limit: DefaultLimit, Page: 1}, p)

	_, p, err = ParseFullText(url.Values{"q": {"shirt"}, "page": {"3"}, "size": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Offset())
}
