package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) listGroups(c echo.Context) error {
	groups, err := h.groups.ListGroups(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(groups, toGroupResponse))
}

func (h *Handler) createGroup(c echo.Context) error {
	group, err := h.groups.CreateGroup(c.Request().Context(), principal(c), bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toGroupResponse(group))
}

func (h *Handler) getGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	group, err := h.groups.GetGroup(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGroupResponse(group))
}

func (h *Handler) updateGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	group, err := h.groups.UpdateGroup(c.Request().Context(), principal(c), id, bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGroupResponse(group))
}

func (h *Handler) deleteGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.groups.DeleteGroup(c.Request().Context(), principal(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
