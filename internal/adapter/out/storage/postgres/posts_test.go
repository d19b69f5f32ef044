package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{"id", "text", "author_id", "username", "group_id", "pub_date"}

const selectPostsSQL = "SELECT posts.id, posts.text, posts.author_id, users.username, posts.group_id, posts.pub_date " +
	"FROM posts JOIN users ON users.id = posts.author_id"

func TestPostStorage_ListPosts(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name   string
		params storage.ListPostsParams
		setup  func(m pgxmock.PgxPoolIface)
		check  func(t *testing.T, got []model.Post, err error)
	}{
		{
			name:   "by group",
			params: storage.ListPostsParams{GroupID: ptr(int64(5))},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL+" WHERE posts.group_id = $1 ORDER BY posts.id")).
					WithArgs(int64(5)).
					WillReturnRows(pgxmock.NewRows(postColumns).
						AddRow(int64(1), "a", int64(1), "alice", ptr(int64(5)), now).
						AddRow(int64(4), "b", int64(2), "bob", ptr(int64(5)), now))
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.NoError(t, err)
				require.Len(t, got, 2)
				for _, p := range got {
					require.NotNil(t, p.GroupID)
					require.Equal(t, int64(5), *p.GroupID)
				}
				require.Equal(t, "bob", got[1].Author)
			},
		},
		{
			name: "all",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL + " ORDER BY posts.id")).
					WillReturnRows(pgxmock.NewRows(postColumns).
						AddRow(int64(1), "a", int64(1), "alice", nil, now))
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.NoError(t, err)
				require.Len(t, got, 1)
				require.Nil(t, got[0].GroupID)
			},
		},
		{
			name: "query error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL)).WillReturnError(errors.New("db fail"))
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.Error(t, err)
				require.Nil(t, got)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMockPool(t)
			tt.setup(m)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			got, err := st.ListPosts(context.Background(), tt.params)
			tt.check(t, got, err)
		})
	}
}

func TestPostStorage_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()
	insert := regexp.QuoteMeta("INSERT INTO posts (text,author_id,group_id) VALUES ($1,$2,$3) RETURNING id, pub_date")

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		m := newMockPool(t)
		m.ExpectQuery(insert).
			WithArgs("hi", int64(1), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "pub_date"}).AddRow(int64(10), now))

		st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
		got, err := st.CreatePost(context.Background(), model.Post{Text: "hi", AuthorID: 1, Author: "alice"})
		require.NoError(t, err)
		require.Equal(t, int64(10), got.ID)
		require.Equal(t, "alice", got.Author)
		require.WithinDuration(t, now, got.PubDate, time.Second)
	})

	t.Run("unknown group", func(t *testing.T) {
		t.Parallel()

		m := newMockPool(t)
		m.ExpectQuery(insert).
			WithArgs("hi", int64(1), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
		_, err := st.CreatePost(context.Background(), model.Post{Text: "hi", AuthorID: 1, GroupID: ptr(int64(9))})
		require.ErrorIs(t, err, service.ErrInvalidRequest)
	})

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()

		m := newMockPool(t)
		m.ExpectQuery(insert).
			WithArgs("hi", int64(42), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: postsAuthorFK})

		st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
		_, err := st.CreatePost(context.Background(), model.Post{Text: "hi", AuthorID: 42})
		require.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestPostStorage_GetPostByID(t *testing.T) {
	t.Parallel()

	m := newMockPool(t)
	m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL + " WHERE posts.id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(postColumns))

	st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
	_, err := st.GetPostByID(context.Background(), 404)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		params  storage.UpdatePostParams
		setup   func(m pgxmock.PgxPoolIface)
		wantErr error
		want    model.Post
	}{
		{
			name:   "text",
			params: storage.UpdatePostParams{Text: ptr("edited")},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET text = $1 WHERE id = $2 RETURNING id")).
					WithArgs("edited", int64(7)).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
				m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL + " WHERE posts.id = $1")).
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(postColumns).AddRow(int64(7), "edited", int64(1), "alice", nil, now))
			},
			want: model.Post{ID: 7, Text: "edited", AuthorID: 1, Author: "alice", PubDate: now},
		},
		{
			name:   "clear group",
			params: storage.UpdatePostParams{SetGroup: true},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET group_id = $1 WHERE id = $2 RETURNING id")).
					WithArgs(pgxmock.AnyArg(), int64(7)).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
				m.ExpectQuery(regexp.QuoteMeta(selectPostsSQL + " WHERE posts.id = $1")).
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(postColumns).AddRow(int64(7), "hi", int64(1), "alice", nil, now))
			},
			want: model.Post{ID: 7, Text: "hi", AuthorID: 1, Author: "alice", PubDate: now},
		},
		{
			name:   "missing",
			params: storage.UpdatePostParams{Text: ptr("edited")},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(regexp.QuoteMeta("UPDATE posts")).
					WithArgs("edited", int64(7)).
					WillReturnRows(pgxmock.NewRows([]string{"id"}))
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMockPool(t)
			tt.setup(m)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			got, err := st.UpdatePost(context.Background(), 7, tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPostStorage_DeletePost(t *testing.T) {
	t.Parallel()

	del := regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")

	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec(del).WithArgs(int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "missing",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec(del).WithArgs(int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMockPool(t)
			tt.setup(m)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			err := st.DeletePost(context.Background(), 7)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
