package inmemory

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/model"
	"yatube/internal/service"
)

func commentAlive(c model.Comment) bool { return c.ID != 0 }

func (s *Store) CreateComment(_ context.Context, in model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := lookup(s.users, in.AuthorID, userAlive); !ok {
		return model.Comment{}, fmt.Errorf("%w: author %d does not exist", service.ErrForbidden, in.AuthorID)
	}
	if _, ok := lookup(s.posts, in.PostID, postAlive); !ok {
		return model.Comment{}, service.ErrNotFound
	}

	in.ID = int64(len(s.comments))
	if in.Created.IsZero() {
		in.Created = time.Now()
	}
	s.comments = append(s.comments, in)
	s.byPost[in.PostID] = append(s.byPost[in.PostID], in.ID)
	return s.commentView(in), nil
}

func (s *Store) GetCommentByID(_ context.Context, commentID int64) (model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := lookup(s.comments, commentID, commentAlive)
	if !ok {
		return model.Comment{}, service.ErrNotFound
	}
	return s.commentView(c), nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[postID]
	out := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c := s.comments[id]; commentAlive(c) {
			out = append(out, s.commentView(c))
		}
	}
	return out, nil
}

func (s *Store) UpdateComment(_ context.Context, commentID int64, text string) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := lookup(s.comments, commentID, commentAlive)
	if !ok {
		return model.Comment{}, service.ErrNotFound
	}
	c.Text = text
	s.comments[commentID] = c
	return s.commentView(c), nil
}

func (s *Store) DeleteComment(_ context.Context, commentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := lookup(s.comments, commentID, commentAlive)
	if !ok {
		return service.ErrNotFound
	}
	s.comments[commentID] = model.Comment{}

	ids := s.byPost[c.PostID]
	for i, id := range ids {
		if id == commentID {
			s.byPost[c.PostID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) commentView(c model.Comment) model.Comment {
	if u, ok := lookup(s.users, c.AuthorID, userAlive); ok {
		c.Author = u.Username
	}
	return c
}
