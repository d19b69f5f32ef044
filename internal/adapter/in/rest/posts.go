package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) listPosts(c echo.Context) error {
	groupID, err := queryGroup(c)
	if err != nil {
		return err
	}

	posts, err := h.posts.ListPosts(c.Request().Context(), principal(c), groupID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(posts, toPostResponse))
}

func (h *Handler) createPost(c echo.Context) error {
	post, err := h.posts.CreatePost(c.Request().Context(), principal(c), bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

func (h *Handler) getPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.GetPost(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// updatePost serves both PUT and PATCH; only fields present in the body
// change.
func (h *Handler) updatePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), principal(c), id, bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func (h *Handler) deletePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), principal(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
