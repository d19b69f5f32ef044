package service

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
)

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error)
	UpdatePost(ctx context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
}

type PostService struct {
	postStorage  PostStorage
	groupStorage GroupStorage
	tx           TxManager
}

func NewPostService(postStorage PostStorage, groupStorage GroupStorage, tx TxManager) *PostService {
	return &PostService{
		postStorage:  postStorage,
		groupStorage: groupStorage,
		tx:           tx,
	}
}

func (s *PostService) ListPosts(ctx context.Context, p model.Principal, groupID *int64) ([]model.Post, error) {
	if err := requireRead(p); err != nil {
		return nil, err
	}
	return s.postStorage.ListPosts(ctx, storage.ListPostsParams{GroupID: groupID})
}

func (s *PostService) GetPost(ctx context.Context, p model.Principal, postID int64) (model.Post, error) {
	if err := requireRead(p); err != nil {
		return model.Post{}, err
	}
	return getOrNotFound(ctx, postID, s.postStorage.GetPostByID)
}

func (s *PostService) CreatePost(ctx context.Context, p model.Principal, decode Decoder) (model.Post, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.Post{}, err
	}

	req, err := decodeRequest[CreatePostRequest](decode)
	if err != nil {
		return model.Post{}, err
	}

	req.Text = trimText(req.Text)
	if err := validateStruct(req); err != nil {
		return model.Post{}, err
	}

	var out model.Post
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if req.Group != nil {
			if err := s.checkGroup(ctx, *req.Group); err != nil {
				return err
			}
		}

		var err error
		out, err = s.postStorage.CreatePost(ctx, model.Post{
			Text:     req.Text,
			AuthorID: p.UserID,
			Author:   p.Username,
			GroupID:  req.Group,
		})
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	return out, nil
}

// UpdatePost applies a partial update. The post is loaded first so that a
// missing post is reported before ownership, and ownership before payload
// problems.
func (s *PostService) UpdatePost(ctx context.Context, p model.Principal, postID int64, decode Decoder) (model.Post, error) {
	var out model.Post
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		post, err := getOrNotFound(ctx, postID, s.postStorage.GetPostByID)
		if err != nil {
			return err
		}
		if err := requireOwner(p, post.AuthorID); err != nil {
			return err
		}

		req, err := decodeRequest[UpdatePostRequest](decode)
		if err != nil {
			return err
		}
		req.Text = trimTextPtr(req.Text)
		if err := validateStruct(req); err != nil {
			return err
		}
		if req.Group.Set && req.Group.Value != nil {
			if err := s.checkGroup(ctx, *req.Group.Value); err != nil {
				return err
			}
		}

		if req.Text == nil && !req.Group.Set {
			out = post
			return nil
		}

		out, err = s.postStorage.UpdatePost(ctx, postID, storage.UpdatePostParams{
			Text:     req.Text,
			SetGroup: req.Group.Set,
			GroupID:  req.Group.Value,
		})
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (s *PostService) DeletePost(ctx context.Context, p model.Principal, postID int64) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		post, err := getOrNotFound(ctx, postID, s.postStorage.GetPostByID)
		if err != nil {
			return err
		}
		if err := requireOwner(p, post.AuthorID); err != nil {
			return err
		}
		return s.postStorage.DeletePost(ctx, postID)
	})
}

func (s *PostService) checkGroup(ctx context.Context, groupID int64) error {
	_, err := getOrNotFound(ctx, groupID, s.groupStorage.GetGroupByID)
	if errors.Is(err, ErrNotFound) {
		return NewValidationError("group", fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, groupID)).Wrap(err)
	}
	return err
}

// getOrNotFound loads an entity by id; non-positive ids never resolve.
func getOrNotFound[T any](ctx context.Context, id int64, get func(context.Context, int64) (T, error)) (T, error) {
	if id <= 0 {
		var zero T
		return zero, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return get(ctx, id)
}
