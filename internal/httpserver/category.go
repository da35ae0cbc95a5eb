package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/online_catalog/internal/service"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.search")

	f, err := transport.ParseCategoryFilter(c.QueryParams())
	if err != nil {
		return badRequest(l, "category_search_failed", err.Error(), err)
	}

	res, err := h.Svc.Search(ctx, f)
	if err != nil {
		return fail(l, "category_search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "category_get_failed", "id is not a positive integer", err)
	}

	v, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "category_get_failed", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create", "user_id", auth.UserID(c))

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_create_failed", "invalid body", err)
	}

	v, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "category_create_failed", err)
	}

	l.Info("category_create_success", "id", v.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/v1/category/"+strconv.FormatUint(uint64(v.ID), 10))
	return c.NoContent(http.StatusCreated)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "category_update_failed", "id is not a positive integer", err)
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_update_failed", "invalid body", err)
	}

	if err := h.Svc.Update(ctx, id, req); err != nil {
		return fail(l, "category_update_failed", err)
	}

	l.Info("category_update_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "category_delete_failed", "id is not a positive integer", err)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "category_delete_failed", err)
	}

	l.Info("category_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
