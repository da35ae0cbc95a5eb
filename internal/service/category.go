package service

import (
	"context"

	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/repo"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *CategoryService) Search(ctx context.Context, f transport.CategoryFilter) (transport.SearchResult[transport.CategoryView], error) {
	total, items, err := s.Repo.SearchCategories(ctx, f)
	if err != nil {
		return transport.SearchResult[transport.CategoryView]{}, classify(err)
	}
	views := make([]transport.CategoryView, 0, len(items))
	for _, c := range items {
		views = append(views, transport.NewCategoryView(c, f.Fields))
	}
	return transport.NewSearchResult(views, total, f.Page), nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*transport.CategoryView, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	v := transport.NewCategoryView(*c, nil)
	return &v, nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CreateCategoryRequest) (*transport.CategoryView, error) {
	if err := transport.Validate(req); err != nil {
		return nil, classify(err)
	}

	c := models.Category{Name: req.Name, Slug: req.Slug, UseInMenu: req.UseInMenu}
	if err := s.Repo.CreateCategory(ctx, &c); err != nil {
		return nil, classify(err)
	}

	publish(ctx, s.Events, CategoryTopic, Event{Type: "category_created", ID: c.ID, Name: c.Name, Slug: c.Slug})
	v := transport.NewCategoryView(c, nil)
	return &v, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req transport.PatchCategoryRequest) error {
	if err := transport.Validate(req); err != nil {
		return classify(err)
	}

	c, err := s.Repo.PatchCategory(ctx, id, req)
	if err != nil {
		return classify(err)
	}

	publish(ctx, s.Events, CategoryTopic, Event{Type: "category_updated", ID: c.ID, Name: c.Name, Slug: c.Slug})
	return nil
}

// Delete removes a category; its product links cascade.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return classify(err)
	}
	publish(ctx, s.Events, CategoryTopic, Event{Type: "category_deleted", ID: id})
	return nil
}
