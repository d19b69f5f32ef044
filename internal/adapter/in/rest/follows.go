package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) listFollows(c echo.Context) error {
	follows, err := h.follows.ListFollows(c.Request().Context(), principal(c), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(follows, toFollowResponse))
}

func (h *Handler) createFollow(c echo.Context) error {
	follow, err := h.follows.CreateFollow(c.Request().Context(), principal(c), bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toFollowResponse(follow))
}
