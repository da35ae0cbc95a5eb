package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/metrics"
	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/repo"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

// ProductService is the only entry point to product data. It opens one
// transaction per write and runs the index, cache and event side effects
// after commit; their failures are logged and never undo the write.
type ProductService struct {
	Repo *repo.GormRepo

	Events  EventPublisher
	Index   ProductIndex
	Cache   ProductCache
	Metrics *metrics.Metrics
}

func (s *ProductService) Search(ctx context.Context, f transport.SearchFilter) (transport.SearchResult[transport.ProductView], error) {
	total, items, err := s.Repo.SearchProducts(ctx, f)
	if err != nil {
		return transport.SearchResult[transport.ProductView]{}, classify(err)
	}

	views := make([]transport.ProductView, 0, len(items))
	for _, p := range items {
		views = append(views, transport.NewProductView(p, f.Fields))
	}
	return transport.NewSearchResult(views, total, f.Page), nil
}

func (s *ProductService) FindByID(ctx context.Context, id uint) (*transport.ProductView, error) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		v, err := s.Cache.GetProduct(ctx, id)
		if err != nil {
			l.Warn("product_cache_get_failed", "id", id, "error", err)
		}
		s.Metrics.ObserveCache(v != nil)
		if v != nil {
			return v, nil
		}
	}

	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.cacheIfCurrent(ctx, *v)
	}
	return v, nil
}

// cacheIfCurrent stores v only while the row still carries v's UpdatedAt,
// so a view loaded before a concurrent update commits is not cached.
func (s *ProductService) cacheIfCurrent(ctx context.Context, v transport.ProductView) {
	l := logging.FromContext(ctx)

	updatedAt, err := s.Repo.ProductUpdatedAt(ctx, v.ID)
	if err != nil {
		l.Warn("product_cache_check_failed", "id", v.ID, "error", err)
		return
	}
	if !updatedAt.Equal(v.UpdatedAt) {
		l.Debug("product_cache_skip_stale", "id", v.ID)
		return
	}
	if err := s.Cache.SetProduct(ctx, v); err != nil {
		l.Warn("product_cache_set_failed", "id", v.ID, "error", err)
	}
}

func (s *ProductService) load(ctx context.Context, id uint) (*transport.ProductView, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	v := transport.NewProductView(*p, nil)
	return &v, nil
}

// Create inserts a product with its categories, images and options atomically.
func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (created *transport.ProductView, err error) {
	defer func() { s.Metrics.ObserveWrite("create", outcome(err)) }()

	in, err := req.NormalizeCreate()
	if err != nil {
		return nil, classify(err)
	}

	var p *models.Product
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		p, err = tx.CreateProduct(ctx, in)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	v, loadErr := s.load(ctx, p.ID)
	if loadErr != nil {
		logging.FromContext(ctx).Warn("product_reload_failed", "id", p.ID, "error", loadErr)
		bare := transport.NewProductView(*p, nil)
		v = &bare
	}
	s.afterSave(ctx, "product_created", *v)
	return v, nil
}

// Update applies a diff-style payload; ErrNotFound when the product does not exist.
func (s *ProductService) Update(ctx context.Context, id uint, req transport.ProductRequest) (err error) {
	defer func() { s.Metrics.ObserveWrite("update", outcome(err)) }()

	in, err := req.NormalizeUpdate()
	if err != nil {
		return classify(err)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		_, err := tx.UpdateProduct(ctx, id, in)
		return err
	})
	if err != nil {
		return classify(err)
	}

	s.forget(ctx, id)
	v, loadErr := s.load(ctx, id)
	if loadErr != nil {
		logging.FromContext(ctx).Warn("product_reload_failed", "id", id, "error", loadErr)
		return nil
	}
	s.afterSave(ctx, "product_updated", *v)
	return nil
}

// Delete removes a product; ErrNotFound when there was nothing to remove.
func (s *ProductService) Delete(ctx context.Context, id uint) (err error) {
	defer func() { s.Metrics.ObserveWrite("delete", outcome(err)) }()

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return classify(err)
	}

	s.forget(ctx, id)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("product_unindex_failed", "id", id, "error", err)
		}
	}
	publish(ctx, s.Events, ProductTopic, Event{Type: "product_deleted", ID: id})
	return nil
}

// FullText searches the product index; ErrUnavailable when no index is configured.
func (s *ProductService) FullText(ctx context.Context, query string, p transport.Page) (transport.SearchResult[transport.ProductView], error) {
	if s.Index == nil {
		return transport.SearchResult[transport.ProductView]{}, fmt.Errorf("%w: full-text index is not configured", ErrUnavailable)
	}
	if p.All() {
		return transport.SearchResult[transport.ProductView]{}, fmt.Errorf("%w: full-text search needs a positive limit", ErrValidation)
	}

	total, views, err := s.Index.SearchProducts(ctx, query, p.Offset(), p.Limit)
	if err != nil {
		return transport.SearchResult[transport.ProductView]{}, err
	}
	return transport.NewSearchResult(views, total, p), nil
}

func (s *ProductService) afterSave(ctx context.Context, eventType string, v transport.ProductView) {
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, v); err != nil {
			logging.FromContext(ctx).Error("product_index_failed", "id", v.ID, "error", err)
		}
	}
	publish(ctx, s.Events, ProductTopic, Event{Type: eventType, ID: v.ID, Name: v.Name, Slug: v.Slug})
}

func (s *ProductService) forget(ctx context.Context, id uint) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.ForgetProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("product_cache_forget_failed", "id", id, "error", err)
	}
}
