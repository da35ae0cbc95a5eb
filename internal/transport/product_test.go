package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_catalog/internal/models"
)

func decode(t *testing.T, body string) ProductRequest {
	t.Helper()
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestNormalizeCreate_OptionValueAliases(t *testing.T) {
	t.Parallel()

	req := decode(t, `{
		"name": "Boot", "slug": "boot", "price": 10, "price_with_discount": 9,
		"options": [
			{"title": "Color", "type": "color", "values": ["red"]},
			{"title": "Size", "shape": "circle", "value": ["40", "41"]},
			{"title": "Both", "value": ["v"], "values": ["vs"]}
		]
	}`)

	in, err := req.NormalizeCreate()
	require.NoError(t, err)
	require.Len(t, in.Options, 3)

	assert.Equal(t, []string{"red"}, *in.Options[0].Values)
	assert.Equal(t, []string{"40", "41"}, *in.Options[1].Values)
	assert.Equal(t, []string{"v"}, *in.Options[2].Values)
	for _, o := range in.Options {
		assert.Equal(t, IntentCreate, o.Intent)
	}

	opt := in.Options[1].NewOption(5)
	assert.EqualValues(t, 5, opt.ProductID)
	assert.Equal(t, models.ShapeCircle, opt.Shape)
	assert.Equal(t, models.KindText, opt.Kind)
	assert.Equal(t, "0", opt.Radius)
}

func TestNormalizeCreate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"slug":"b","price":1,"price_with_discount":1}`},
		{"missing slug", `{"name":"b","price":1,"price_with_discount":1}`},
		{"missing price", `{"name":"b","slug":"b","price_with_discount":1}`},
		{"negative stock", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"stock":-1}`},
		{"bad shape", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"options":[{"title":"t","shape":"star","values":[]}]}`},
		{"bad kind", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"options":[{"title":"t","type":"emoji","values":[]}]}`},
		{"option without title", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"options":[{"values":["x"]}]}`},
		{"option without values", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"options":[{"title":"t"}]}`},
		{"image without subtype", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"images":[{"type":"png","content":"x"}]}`},
		{"zero category id", `{"name":"b","slug":"b","price":1,"price_with_discount":1,"category_ids":[0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := decode(t, tt.body).NormalizeCreate()
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestNormalizeUpdate_ClassifiesEntries(t *testing.T) {
	t.Parallel()

	req := decode(t, `{
		"images": [
			{"id": 1, "deleted": true},
			{"type": "image/png", "content": "abc"},
			{"id": 2},
			{"type": "image/png"}
		],
		"options": [
			{"id": 3, "deleted": true},
			{"id": 4, "title": "Renamed", "values": ["x"]},
			{"title": "New", "value": ["y"]},
			{"deleted": true},
			{"shape": "circle"}
		]
	}`)

	in, err := req.NormalizeUpdate()
	require.NoError(t, err)

	imageIntents := []Intent{}
	for _, img := range in.Images {
		imageIntents = append(imageIntents, img.Intent)
	}
	assert.Equal(t, []Intent{IntentDelete, IntentCreate, IntentIgnore, IntentIgnore}, imageIntents)
	assert.Equal(t, "png", in.Images[1].Subtype())

	optionIntents := []Intent{}
	for _, o := range in.Options {
		optionIntents = append(optionIntents, o.Intent)
	}
	assert.Equal(t, []Intent{IntentDelete, IntentModify, IntentCreate, IntentIgnore, IntentIgnore}, optionIntents)

	mod := in.Options[1].Updates()
	assert.NotContains(t, mod, "id")
	assert.Equal(t, "Renamed", mod["title"])
	assert.Contains(t, mod, "option_values")
	assert.Equal(t, []string{"y"}, *in.Options[2].Values)
}

func TestNormalizeUpdate_CategoryPresence(t *testing.T) {
	t.Parallel()

	absent, err := decode(t, `{"name":"x"}`).NormalizeUpdate()
	require.NoError(t, err)
	assert.Nil(t, absent.CategoryIDs)

	empty, err := decode(t, `{"category_ids":[]}`).NormalizeUpdate()
	require.NoError(t, err)
	require.NotNil(t, empty.CategoryIDs)
	assert.Empty(t, *empty.CategoryIDs)

	dup, err := decode(t, `{"category_ids":[3,1,3]}`).NormalizeUpdate()
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1}, *dup.CategoryIDs)
}

func TestProductFields_UpdatesKeepZeroValues(t *testing.T) {
	t.Parallel()

	in, err := decode(t, `{"enabled": false, "stock": 0, "description": ""}`).NormalizeUpdate()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"enabled": false, "stock": 0, "description": ""}, in.Fields.Updates())
}

func TestImageInput_Subtype(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jpeg", ImageInput{ContentType: "image/jpeg"}.Subtype())
	assert.Equal(t, "svg+xml", ImageInput{ContentType: "image/svg+xml; charset=utf-8"}.Subtype())
	assert.Empty(t, ImageInput{ContentType: "png"}.Subtype())
}
