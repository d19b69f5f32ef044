package service

import (
	"context"
	"fmt"

	"yatube/internal/model"
)

//go:generate mockgen -source=comments.go -destination=./comment_storage_mock.go -package=service
type CommentStorage interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, text string) (model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

type CommentService struct {
	commentStorage CommentStorage
	postStorage    PostStorage
	tx             TxManager
}

func NewCommentService(commentStorage CommentStorage, postStorage PostStorage, tx TxManager) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		postStorage:    postStorage,
		tx:             tx,
	}
}

// ListComments returns the comments of an existing post.
func (s *CommentService) ListComments(ctx context.Context, p model.Principal, postID int64) ([]model.Comment, error) {
	if err := requireRead(p); err != nil {
		return nil, err
	}
	if _, err := getOrNotFound(ctx, postID, s.postStorage.GetPostByID); err != nil {
		return nil, err
	}
	return s.commentStorage.ListCommentsByPost(ctx, postID)
}

func (s *CommentService) GetComment(ctx context.Context, p model.Principal, postID, commentID int64) (model.Comment, error) {
	if err := requireRead(p); err != nil {
		return model.Comment{}, err
	}
	return s.getScoped(ctx, postID, commentID)
}

func (s *CommentService) CreateComment(ctx context.Context, p model.Principal, postID int64, decode Decoder) (model.Comment, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.Comment{}, err
	}

	var out model.Comment
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := getOrNotFound(ctx, postID, s.postStorage.GetPostByID); err != nil {
			return err
		}

		req, err := decodeRequest[CreateCommentRequest](decode)
		if err != nil {
			return err
		}
		req.Text = trimText(req.Text)
		if err := validateStruct(req); err != nil {
			return err
		}

		out, err = s.commentStorage.CreateComment(ctx, model.Comment{
			PostID:   postID,
			AuthorID: p.UserID,
			Author:   p.Username,
			Text:     req.Text,
		})
		return err
	})
	if err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, p model.Principal, postID, commentID int64, decode Decoder) (model.Comment, error) {
	var out model.Comment
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		comment, err := s.getScoped(ctx, postID, commentID)
		if err != nil {
			return err
		}
		if err := requireOwner(p, comment.AuthorID); err != nil {
			return err
		}

		req, err := decodeRequest[UpdateCommentRequest](decode)
		if err != nil {
			return err
		}
		req.Text = trimTextPtr(req.Text)
		if err := validateStruct(req); err != nil {
			return err
		}
		if req.Text == nil {
			out = comment
			return nil
		}

		out, err = s.commentStorage.UpdateComment(ctx, commentID, *req.Text)
		return err
	})
	if err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, p model.Principal, postID, commentID int64) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		comment, err := s.getScoped(ctx, postID, commentID)
		if err != nil {
			return err
		}
		if err := requireOwner(p, comment.AuthorID); err != nil {
			return err
		}
		return s.commentStorage.DeleteComment(ctx, commentID)
	})
}

// getScoped loads a comment and hides it unless it belongs to postID.
func (s *CommentService) getScoped(ctx context.Context, postID, commentID int64) (model.Comment, error) {
	if _, err := getOrNotFound(ctx, postID, s.postStorage.GetPostByID); err != nil {
		return model.Comment{}, err
	}
	c, err := getOrNotFound(ctx, commentID, s.commentStorage.GetCommentByID)
	if err != nil {
		return model.Comment{}, err
	}
	if c.PostID != postID {
		return model.Comment{}, fmt.Errorf("comment %d on post %d: %w", commentID, postID, ErrNotFound)
	}
	return c, nil
}
