package inmemory

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
)

func postAlive(p model.Post) bool { return p.ID != 0 }

func (s *Store) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := lookup(s.users, in.AuthorID, userAlive); !ok {
		return model.Post{}, fmt.Errorf("%w: author %d does not exist", service.ErrForbidden, in.AuthorID)
	}
	if in.GroupID != nil {
		if _, ok := lookup(s.groups, *in.GroupID, groupAlive); !ok {
			return model.Post{}, service.ErrInvalidRequest
		}
	}

	in.ID = int64(len(s.posts))
	in.GroupID = cloneID(in.GroupID)
	if in.PubDate.IsZero() {
		in.PubDate = time.Now()
	}
	s.posts = append(s.posts, in)
	return s.postView(in), nil
}

func (s *Store) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := lookup(s.posts, postID, postAlive)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	return s.postView(p), nil
}

// ListPosts returns posts in id order, optionally only those tagged with
// params.GroupID.
func (s *Store) ListPosts(_ context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0)
	for _, p := range s.posts[1:] {
		if !postAlive(p) {
			continue
		}
		if params.GroupID != nil && (p.GroupID == nil || *p.GroupID != *params.GroupID) {
			continue
		}
		out = append(out, s.postView(p))
	}
	return out, nil
}

func (s *Store) UpdatePost(_ context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := lookup(s.posts, postID, postAlive)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}

	if params.Text != nil {
		p.Text = *params.Text
	}
	if params.SetGroup {
		if params.GroupID != nil {
			if _, ok := lookup(s.groups, *params.GroupID, groupAlive); !ok {
				return model.Post{}, service.ErrInvalidRequest
			}
		}
		p.GroupID = cloneID(params.GroupID)
	}
	s.posts[postID] = p
	return s.postView(p), nil
}

// DeletePost removes the post together with its comments.
func (s *Store) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := lookup(s.posts, postID, postAlive); !ok {
		return service.ErrNotFound
	}
	s.posts[postID] = model.Post{}

	for _, id := range s.byPost[postID] {
		s.comments[id] = model.Comment{}
	}
	delete(s.byPost, postID)
	return nil
}

// postView resolves the author's current username and copies the group id so
// callers cannot alias stored rows. Must be called with mu held.
func (s *Store) postView(p model.Post) model.Post {
	if u, ok := lookup(s.users, p.AuthorID, userAlive); ok {
		p.Author = u.Username
	}
	p.GroupID = cloneID(p.GroupID)
	return p
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
