package inmemory

import (
	"context"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
)

// CreateFollow checks and inserts under one lock, which makes the
// (user, following) pair unique even under concurrent requests.
func (s *Store) CreateFollow(_ context.Context, in model.Follow) (model.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.UserID == in.FollowingID {
		return model.Follow{}, service.ErrSelfFollow
	}
	key := edge{userID: in.UserID, followingID: in.FollowingID}
	if _, ok := s.edges[key]; ok {
		return model.Follow{}, service.ErrDuplicateFollow
	}

	in.ID = int64(len(s.follows))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.follows = append(s.follows, in)
	s.edges[key] = in.ID
	return s.followView(in), nil
}

// ListFollows returns edges in id order. A non-empty search keeps the edges
// whose follower or followee username equals it.
func (s *Store) ListFollows(_ context.Context, params storage.ListFollowsParams) ([]model.Follow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Follow, 0)
	for _, f := range s.follows[1:] {
		f = s.followView(f)
		if params.Search != "" && f.User != params.Search && f.Following != params.Search {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Store) FollowExists(_ context.Context, userID, followingID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.edges[edge{userID: userID, followingID: followingID}]
	return ok, nil
}

func (s *Store) followView(f model.Follow) model.Follow {
	if u, ok := lookup(s.users, f.UserID, userAlive); ok {
		f.User = u.Username
	}
	if u, ok := lookup(s.users, f.FollowingID, userAlive); ok {
		f.Following = u.Username
	}
	return f
}
