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

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	f, err := transport.ParseSearchFilter(c.QueryParams())
	if err != nil {
		return badRequest(l, "product_search_failed", err.Error(), err)
	}

	res, err := h.Svc.Search(ctx, f)
	if err != nil {
		return fail(l, "product_search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) FullText(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.fulltext")

	query, page, err := transport.ParseFullText(c.QueryParams())
	if err != nil {
		return badRequest(l, "product_fulltext_failed", err.Error(), err)
	}

	res, err := h.Svc.FullText(ctx, query, page)
	if err != nil {
		return fail(l, "product_fulltext_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "product_get_failed", "id is not a positive integer", err)
	}

	v, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		return fail(l, "product_get_failed", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create", "user_id", auth.UserID(c))

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create_failed", "invalid body", err)
	}

	v, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "product_create_failed", err)
	}

	l.Info("product_create_success", "id", v.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/v1/product/"+strconv.FormatUint(uint64(v.ID), 10))
	return c.NoContent(http.StatusCreated)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "product_update_failed", "id is not a positive integer", err)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_update_failed", "invalid body", err)
	}

	if err := h.Svc.Update(ctx, id, req); err != nil {
		return fail(l, "product_update_failed", err)
	}

	l.Info("product_update_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "product_delete_failed", "id is not a positive integer", err)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "product_delete_failed", err)
	}

	l.Info("product_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
