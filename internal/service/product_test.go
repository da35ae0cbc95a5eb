package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_catalog/internal/metrics"
	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

func productReq(name, slug string, price float64) transport.ProductRequest {
	return transport.ProductRequest{
		Name:              ptr(name),
		Slug:              ptr(slug),
		Price:             ptr(price),
		PriceWithDiscount: ptr(price),
	}
}

type productFixture struct {
	svc    *ProductService
	events *fakePublisher
	index  *fakeIndex
	cache  *fakeCache
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()
	f := productFixture{events: &fakePublisher{}, index: newFakeIndex(), cache: newFakeCache()}
	f.svc = &ProductService{
		Repo:    newRepo(t),
		Events:  f.events,
		Index:   f.index,
		Cache:   f.cache,
		Metrics: metrics.New(),
	}
	return f
}

func TestProductService_CreateRunsSideEffects(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	cat := models.Category{Name: "Tees", Slug: "tees"}
	require.NoError(t, f.svc.Repo.CreateCategory(ctx, &cat))

	req := productReq("Shirt", "shirt", 10)
	req.CategoryIDs = &[]uint{cat.ID}
	req.Options = []transport.OptionRequest{{Title: ptr("Size"), Values: &[]string{"S", "M"}}}

	v, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, v.ID)
	assert.Equal(t, []uint{cat.ID}, v.CategoryIDs)
	require.Len(t, v.Options, 1)
	assert.Equal(t, "Size", v.Options[0].Title)

	assert.Equal(t, []string{"product_created"}, f.events.types(ProductTopic))
	assert.Contains(t, f.index.docs, v.ID)
	n, err := testutil.GatherAndCount(f.svc.Metrics.Registry, "catalog_product_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProductService_CreateInvalid(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)

	_, err := f.svc.Create(context.Background(), transport.ProductRequest{Name: ptr("x")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.events.types(ProductTopic))
}

func TestProductService_DuplicateSlugIsValidation(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, productReq("A", "same", 1))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, productReq("B", "same", 1))
	require.ErrorIs(t, err, ErrValidation)
}

func TestProductService_PublishFailureKeepsWrite(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	f.events.err = errBroker
	ctx := context.Background()

	v, err := f.svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)

	got, err := f.svc.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "shirt", got.Slug)
}

func TestProductService_FindByIDCachesAndUpdateForgets(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)

	_, err = f.svc.FindByID(ctx, v.ID)
	require.NoError(t, err)
	require.Contains(t, f.cache.items, v.ID)

	require.NoError(t, f.svc.Update(ctx, v.ID, transport.ProductRequest{Name: ptr("Polo")}))
	assert.Contains(t, f.cache.forgets, v.ID)
	assert.NotContains(t, f.cache.items, v.ID)

	got, err := f.svc.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Polo", got.Name)
	assert.Equal(t, "Polo", f.index.docs[v.ID].Name)
	assert.Equal(t, []string{"product_created", "product_updated"}, f.events.types(ProductTopic))
}

func TestProductService_NotFound(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.FindByID(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Update(ctx, 99, transport.ProductRequest{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Delete(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.events.types(ProductTopic))
}

func TestProductService_Delete(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, v.ID))
	assert.NotContains(t, f.index.docs, v.ID)
	assert.Contains(t, f.cache.forgets, v.ID)
	assert.Equal(t, []string{"product_created", "product_deleted"}, f.events.types(ProductTopic))

	_, err = f.svc.FindByID(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Search(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		_, err := f.svc.Create(ctx, productReq(slug, slug, 1))
		require.NoError(t, err)
	}

	res, err := f.svc.Search(ctx, transport.SearchFilter{Page: transport.Page{Limit: 2, Page: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "c", res.Data[0].Slug)
}

func TestProductService_FullText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bare := &ProductService{Repo: newRepo(t)}
	_, err := bare.FullText(ctx, "shirt", transport.Page{Limit: 10, Page: 1})
	require.ErrorIs(t, err, ErrUnavailable)

	f := newProductFixture(t)
	_, err = f.svc.FullText(ctx, "shirt", transport.Page{Limit: transport.AllRows, Page: 1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)
	res, err := f.svc.FullText(ctx, "shirt", transport.Page{Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestProductService_WithoutCollaborators(t *testing.T) {
	t.Parallel()
	svc := &ProductService{Repo: newRepo(t)}
	ctx := context.Background()

	v, err := svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, v.ID, transport.ProductRequest{Stock: ptr(3)}))

	got, err := svc.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
	require.NoError(t, svc.Delete(ctx, v.ID))
}

func TestProductService_StaleViewIsNotCached(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, productReq("Shirt", "shirt", 10))
	require.NoError(t, err)
	stale, err := f.svc.load(ctx, created.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, f.svc.Update(ctx, created.ID, transport.ProductRequest{Name: ptr("Polo")}))

	f.svc.cacheIfCurrent(ctx, *stale)
	assert.NotContains(t, f.cache.items, created.ID)

	fresh, err := f.svc.load(ctx, created.ID)
	require.NoError(t, err)
	f.svc.cacheIfCurrent(ctx, *fresh)
	require.Contains(t, f.cache.items, created.ID)
	assert.Equal(t, "Polo", f.cache.items[created.ID].Name)
}
