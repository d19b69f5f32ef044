package inmemory

import (
	"context"
	"sync"

	"yatube/internal/model"
)

// Store keeps every table behind one lock so that cascades and uniqueness
// checks see a consistent view. Each slice is indexed by id; slot 0 is unused
// and deleted rows are left as zero values.
type Store struct {
	mu sync.RWMutex

	users      []model.User
	byUsername map[string]int64

	groups []model.Group

	posts []model.Post

	comments []model.Comment
	byPost   map[int64][]int64

	follows []model.Follow
	edges   map[edge]int64
}

type edge struct {
	userID, followingID int64
}

func NewStore() *Store {
	return &Store{
		users:      []model.User{{}},
		byUsername: make(map[string]int64),
		groups:     []model.Group{{}},
		posts:      []model.Post{{}},
		comments:   []model.Comment{{}},
		byPost:     make(map[int64][]int64),
		follows:    []model.Follow{{}},
		edges:      make(map[edge]int64),
	}
}

// TxManager runs fn directly. Every Store method is atomic on its own.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func lookup[T any](rows []T, id int64, alive func(T) bool) (T, bool) {
	var zero T
	if id <= 0 || int(id) >= len(rows) {
		return zero, false
	}
	r := rows[id]
	if !alive(r) {
		return zero, false
	}
	return r, true
}
