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

type UserHTTP struct {
	Svc  *service.UserService
	Auth *service.AuthService
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "user_get_failed", "id is not a positive integer", err)
	}

	v, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "user_get_failed", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "user_create_failed", "invalid body", err)
	}

	v, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "user_create_failed", err)
	}

	l.Info("user_create_success", "id", v.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/v1/user/"+strconv.FormatUint(uint64(v.ID), 10))
	return c.NoContent(http.StatusCreated)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "user_update_failed", "id is not a positive integer", err)
	}

	var req transport.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "user_update_failed", "invalid body", err)
	}

	if err := h.Svc.Update(ctx, id, req); err != nil {
		return fail(l, "user_update_failed", err)
	}

	l.Info("user_update_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete", "user_id", auth.UserID(c))

	id, err := transport.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "user_delete_failed", "id is not a positive integer", err)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "user_delete_failed", err)
	}

	l.Info("user_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.token")

	var req transport.TokenRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "token_issue_failed", "invalid body", err)
	}

	token, err := h.Auth.IssueToken(ctx, req)
	if err != nil {
		return fail(l, "token_issue_failed", err)
	}
	return c.JSON(http.StatusOK, transport.TokenResponse{Token: token})
}
