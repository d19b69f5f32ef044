package inmemory

import (
	"context"

	"yatube/internal/model"
	"yatube/internal/service"
)

func groupAlive(g model.Group) bool { return g.ID != 0 }

func (s *Store) CreateGroup(_ context.Context, in model.Group) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.groups))
	s.groups = append(s.groups, in)
	return in, nil
}

func (s *Store) GetGroupByID(_ context.Context, groupID int64) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := lookup(s.groups, groupID, groupAlive)
	if !ok {
		return model.Group{}, service.ErrNotFound
	}
	return g, nil
}

func (s *Store) ListGroups(_ context.Context) ([]model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Group, 0, len(s.groups)-1)
	for _, g := range s.groups[1:] {
		if groupAlive(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) UpdateGroup(_ context.Context, groupID int64, title string) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := lookup(s.groups, groupID, groupAlive)
	if !ok {
		return model.Group{}, service.ErrNotFound
	}
	g.Title = title
	s.groups[groupID] = g
	return g, nil
}

// DeleteGroup removes the group and untags its posts.
func (s *Store) DeleteGroup(_ context.Context, groupID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := lookup(s.groups, groupID, groupAlive); !ok {
		return service.ErrNotFound
	}
	s.groups[groupID] = model.Group{}

	for i, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == groupID {
			s.posts[i].GroupID = nil
		}
	}
	return nil
}
