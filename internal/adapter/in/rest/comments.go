package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) listComments(c echo.Context) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}

	comments, err := h.comments.ListComments(c.Request().Context(), principal(c), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(comments, toCommentResponse))
}

func (h *Handler) createComment(c echo.Context) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), principal(c), postID, bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *Handler) getComment(c echo.Context) error {
	postID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	comment, err := h.comments.GetComment(c.Request().Context(), principal(c), postID, commentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (h *Handler) updateComment(c echo.Context) error {
	postID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	comment, err := h.comments.UpdateComment(c.Request().Context(), principal(c), postID, commentID, bodyDecoder(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (h *Handler) deleteComment(c echo.Context) error {
	postID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(c.Request().Context(), principal(c), postID, commentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func commentPath(c echo.Context) (int64, int64, error) {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}
