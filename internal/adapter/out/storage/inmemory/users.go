package inmemory

import (
	"context"
	"time"

	"yatube/internal/model"
	"yatube/internal/service"
)

func userAlive(u model.User) bool { return u.ID != 0 }

func (s *Store) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[in.Username]; ok {
		return model.User{}, service.ErrUsernameTaken
	}

	in.ID = int64(len(s.users))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.users = append(s.users, in)
	s.byUsername[in.Username] = in.ID
	return in, nil
}

func (s *Store) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := lookup(s.users, userID, userAlive)
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[id], nil
}
