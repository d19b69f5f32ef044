package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yatube/internal/adapter/out/storage/inmemory"
	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type testAPI struct {
	t      *testing.T
	e      *echo.Echo
	store  *inmemory.Store
	issuer *auth.Issuer
}

func newTestAPI(t *testing.T, enableSignup bool) *testAPI {
	t.Helper()

	st := inmemory.NewStore()
	tx := inmemory.TxManager{}
	issuer := auth.NewIssuer(testSecret, 5*time.Minute, time.Hour)

	h := NewHandler(Services{
		Posts:    service.NewPostService(st, st, tx),
		Comments: service.NewCommentService(st, st, tx),
		Groups:   service.NewGroupService(st, tx),
		Follows:  service.NewFollowService(st, st, tx),
		Users:    service.NewUserService(st, auth.NewBcryptHasher(bcrypt.MinCost)),
	}, issuer, enableSignup)

	return &testAPI{
		t:      t,
		e:      NewEcho(h, Options{}),
		store:  st,
		issuer: issuer,
	}
}

func (a *testAPI) do(method, path, token string, body any) (int, []byte) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, DefaultBasePath+path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (a *testAPI) decode(raw []byte, v any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(raw, v), string(raw))
}

// signup registers a user through the store and returns an access token.
func (a *testAPI) signup(username string) string {
	a.t.Helper()

	svc := service.NewUserService(a.store, auth.NewBcryptHasher(bcrypt.MinCost))
	u, err := svc.Register(context.Background(), service.RegisterRequest{Username: username, Password: "password123"})
	require.NoError(a.t, err)

	pair, err := a.issuer.IssuePair(u)
	require.NoError(a.t, err)
	return pair.Access
}

func TestAPI_Scenario(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")
	bob := api.signup("bob")

	code, raw := api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "hello"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var post postResponse
	api.decode(raw, &post)
	require.Equal(t, int64(1), post.ID)
	require.Equal(t, "alice", post.Author)
	require.Nil(t, post.Group)

	// neither bob nor an anonymous caller can change alice's post
	for _, token := range []string{bob, ""} {
		code, _ = api.do(http.MethodPatch, "/posts/1", token, map[string]any{"text": "x"})
		require.Equal(t, http.StatusForbidden, code)
		code, _ = api.do(http.MethodPut, "/posts/1", token, map[string]any{"text": "x"})
		require.Equal(t, http.StatusForbidden, code)
		code, _ = api.do(http.MethodDelete, "/posts/1", token, nil)
		require.Equal(t, http.StatusForbidden, code)
	}
	api.requirePost(1, "hello")

	code, raw = api.do(http.MethodPost, "/posts/1/comments", bob, map[string]any{"text": "nice"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var comment commentResponse
	api.decode(raw, &comment)
	require.Equal(t, "bob", comment.Author)
	require.Equal(t, int64(1), comment.Post)

	code, _ = api.do(http.MethodPatch, "/posts/1/comments/1", alice, map[string]any{"text": "rewritten"})
	require.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodDelete, "/posts/1/comments/1", alice, nil)
	require.Equal(t, http.StatusForbidden, code)
	code, raw = api.do(http.MethodGet, "/posts/1/comments/1", "", nil)
	require.Equal(t, http.StatusOK, code)
	api.decode(raw, &comment)
	require.Equal(t, "nice", comment.Text)

	code, raw = api.do(http.MethodPost, "/follow", bob, map[string]any{"following": "alice"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var follow followResponse
	api.decode(raw, &follow)
	require.Equal(t, followResponse{User: "bob", Following: "alice"}, follow)

	code, raw = api.do(http.MethodPatch, "/posts/1", alice, map[string]any{"text": "edited"})
	require.Equal(t, http.StatusOK, code, string(raw))
	api.decode(raw, &post)
	require.Equal(t, "edited", post.Text)

	// reads are open
	code, raw = api.do(http.MethodGet, "/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	var comments []commentResponse
	api.decode(raw, &comments)
	require.Len(t, comments, 1)
}

func (a *testAPI) requirePost(id int64, text string) {
	a.t.Helper()

	code, raw := a.do(http.MethodGet, fmt.Sprintf("/posts/%d", id), "", nil)
	require.Equal(a.t, http.StatusOK, code, string(raw))
	var post postResponse
	a.decode(raw, &post)
	require.Equal(a.t, text, post.Text)
}

func TestAPI_TextStoredAsSent(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")

	const text = "if a<b and c>d then <b>bold</b> & more"
	code, raw := api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "  " + text + "  "})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var post postResponse
	api.decode(raw, &post)
	require.Equal(t, text, post.Text)
	api.requirePost(post.ID, text)

	code, raw = api.do(http.MethodPost, "/posts/1/comments", alice, map[string]any{"text": "a<b"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var comment commentResponse
	api.decode(raw, &comment)
	require.Equal(t, "a<b", comment.Text)

	code, raw = api.do(http.MethodPost, "/group", alice, map[string]any{"title": "<cats & dogs>"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var group groupResponse
	api.decode(raw, &group)
	require.Equal(t, "<cats & dogs>", group.Title)

	code, _ = api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "   "})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_PayloadCheckedLast(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")
	bob := api.signup("bob")

	code, _ := api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "hello"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.do(http.MethodPost, "/posts/1/comments", alice, map[string]any{"text": "first"})
	require.Equal(t, http.StatusCreated, code)

	badText := map[string]any{"text": 5}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		code   int
	}{
		{name: "missing post", method: http.MethodPatch, path: "/posts/999", token: bob, code: http.StatusNotFound},
		{name: "non-author post", method: http.MethodPatch, path: "/posts/1", token: bob, code: http.StatusForbidden},
		{name: "anonymous post", method: http.MethodPut, path: "/posts/1", token: "", code: http.StatusForbidden},
		{name: "author post", method: http.MethodPatch, path: "/posts/1", token: alice, code: http.StatusBadRequest},
		{name: "missing comment", method: http.MethodPatch, path: "/posts/1/comments/9", token: bob, code: http.StatusNotFound},
		{name: "non-author comment", method: http.MethodPatch, path: "/posts/1/comments/1", token: bob, code: http.StatusForbidden},
		{name: "comment on missing post", method: http.MethodPost, path: "/posts/999/comments", token: bob, code: http.StatusNotFound},
		{name: "anonymous create", method: http.MethodPost, path: "/posts", token: "", code: http.StatusForbidden},
		{name: "missing group", method: http.MethodPatch, path: "/group/9", token: bob, code: http.StatusNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			code, raw := api.do(tt.method, tt.path, tt.token, badText)
			require.Equal(t, tt.code, code, string(raw))
		})
	}

	api.requirePost(1, "hello")
}

func TestAPI_TokenForMissingUser(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")

	code, _ := api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "hello"})
	require.Equal(t, http.StatusCreated, code)

	pair, err := api.issuer.IssuePair(model.User{ID: 42, Username: "ghost"})
	require.NoError(t, err)

	code, _ = api.do(http.MethodPost, "/posts", pair.Access, map[string]any{"text": "orphan"})
	require.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodPost, "/posts/1/comments", pair.Access, map[string]any{"text": "orphan"})
	require.Equal(t, http.StatusForbidden, code)

	code, raw := api.do(http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	var posts []postResponse
	api.decode(raw, &posts)
	require.Len(t, posts, 1)

	code, raw = api.do(http.MethodGet, "/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(raw))
}

func TestAPI_FollowRules(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	api.signup("alice")
	bob := api.signup("bob")

	code, _ := api.do(http.MethodPost, "/follow", bob, map[string]any{"following": "alice"})
	require.Equal(t, http.StatusCreated, code)

	code, raw := api.do(http.MethodPost, "/follow", bob, map[string]any{"following": "alice"})
	require.Equal(t, http.StatusBadRequest, code)
	var fields map[string][]string
	api.decode(raw, &fields)
	require.Contains(t, fields, "following")

	code, raw = api.do(http.MethodPost, "/follow", bob, map[string]any{"following": "nobody"})
	require.Equal(t, http.StatusBadRequest, code, string(raw))

	code, _ = api.do(http.MethodPost, "/follow", bob, map[string]any{"following": "bob"})
	require.Equal(t, http.StatusBadRequest, code)

	code, raw = api.do(http.MethodGet, "/follow", "", nil)
	require.Equal(t, http.StatusOK, code)
	var follows []followResponse
	api.decode(raw, &follows)
	require.Equal(t, []followResponse{{User: "bob", Following: "alice"}}, follows)

	code, raw = api.do(http.MethodGet, "/follow?search=nobody", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(raw))
}

func TestAPI_GroupFilter(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")

	for _, title := range []string{"cats", "dogs"} {
		code, raw := api.do(http.MethodPost, "/group", alice, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, code, string(raw))
	}

	for _, body := range []map[string]any{
		{"text": "one", "group": 2},
		{"text": "two"},
		{"text": "three", "group": 2},
		{"text": "four", "group": 1},
	} {
		code, raw := api.do(http.MethodPost, "/posts", alice, body)
		require.Equal(t, http.StatusCreated, code, string(raw))
	}

	code, raw := api.do(http.MethodGet, "/posts?group=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	var posts []postResponse
	api.decode(raw, &posts)
	require.Len(t, posts, 2)
	require.Equal(t, "one", posts[0].Text)
	require.Equal(t, "three", posts[1].Text)

	code, raw = api.do(http.MethodGet, "/posts?group=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"group":["A valid integer is required."]}`, string(raw))

	code, raw = api.do(http.MethodPost, "/posts", alice, map[string]any{"text": "x", "group": 9})
	require.Equal(t, http.StatusBadRequest, code)
	var fields map[string][]string
	api.decode(raw, &fields)
	require.Contains(t, fields, "group")

	// deleting a group keeps its posts untagged
	code, _ = api.do(http.MethodDelete, "/group/2", alice, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, raw = api.do(http.MethodGet, "/posts/1", "", nil)
	require.Equal(t, http.StatusOK, code)
	var post postResponse
	api.decode(raw, &post)
	require.Nil(t, post.Group)
}

func TestAPI_Comments(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	alice := api.signup("alice")

	code, raw := api.do(http.MethodPost, "/posts/999/comments", alice, map[string]any{"text": "hi"})
	require.Equal(t, http.StatusNotFound, code)
	require.JSONEq(t, `{"detail":"Not found."}`, string(raw))

	comments, err := api.store.ListCommentsByPost(context.Background(), 999)
	require.NoError(t, err)
	require.Empty(t, comments)

	for _, text := range []string{"first", "second"} {
		code, _ = api.do(http.MethodPost, "/posts", alice, map[string]any{"text": text})
		require.Equal(t, http.StatusCreated, code)
	}
	code, _ = api.do(http.MethodPost, "/posts/1/comments", alice, map[string]any{"text": "on first"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = api.do(http.MethodGet, "/posts/1/comments/1", "", nil)
	require.Equal(t, http.StatusOK, code)

	// the comment exists, but not under post 2
	code, _ = api.do(http.MethodGet, "/posts/2/comments/1", "", nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodDelete, "/posts/1", alice, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(http.MethodGet, "/posts/1", "", nil)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = api.do(http.MethodGet, "/posts/1/comments/1", "", nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestAPI_Auth(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)
	api.signup("alice")

	code, raw := api.do(http.MethodPost, "/token/", "", map[string]any{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, code, string(raw))
	var pair auth.TokenPair
	api.decode(raw, &pair)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	code, _ = api.do(http.MethodPost, "/token", "", map[string]any{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, raw = api.do(http.MethodPost, "/token", "", map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"username":["This field is required."],"password":["This field is required."]}`, string(raw))

	code, raw = api.do(http.MethodPost, "/token/refresh", "", map[string]any{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, code, string(raw))
	var access accessResponse
	api.decode(raw, &access)

	code, _ = api.do(http.MethodPost, "/posts", access.Access, map[string]any{"text": "via refreshed token"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = api.do(http.MethodPost, "/token/refresh", "", map[string]any{"refresh": pair.Access})
	require.Equal(t, http.StatusUnauthorized, code)

	tests := []struct {
		name  string
		token string
		code  int
	}{
		{name: "anonymous", token: "", code: http.StatusForbidden},
		{name: "garbage token", token: "not-a-jwt", code: http.StatusUnauthorized},
		{name: "refresh token as bearer", token: pair.Refresh, code: http.StatusUnauthorized},
		{name: "access token", token: pair.Access, code: http.StatusCreated},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			code, raw := api.do(http.MethodPost, "/posts", tt.token, map[string]any{"text": "hi"})
			require.Equal(t, tt.code, code, string(raw))
		})
	}
}

func TestAPI_Signup(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		api := newTestAPI(t, false)
		code, _ := api.do(http.MethodPost, "/users", "", map[string]any{"username": "carol", "password": "password123"})
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("enabled", func(t *testing.T) {
		api := newTestAPI(t, true)
		code, raw := api.do(http.MethodPost, "/users", "", map[string]any{"username": "carol", "password": "password123"})
		require.Equal(t, http.StatusCreated, code, string(raw))
		var u userResponse
		api.decode(raw, &u)
		require.Equal(t, userResponse{ID: 1, Username: "carol"}, u)

		code, _ = api.do(http.MethodPost, "/users", "", map[string]any{"username": "carol", "password": "password123"})
		require.Equal(t, http.StatusBadRequest, code)

		code, _ = api.do(http.MethodPost, "/token", "", map[string]any{"username": "carol", "password": "password123"})
		require.Equal(t, http.StatusOK, code)
	})
}

func TestAPI_Paths(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, false)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "non-numeric post id", path: "/posts/abc", code: http.StatusNotFound},
		{name: "missing post", path: "/posts/42", code: http.StatusNotFound},
		{name: "empty list", path: "/posts", code: http.StatusOK},
		{name: "trailing slash", path: "/group/", code: http.StatusOK},
		{name: "unknown route", path: "/nope", code: http.StatusNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _ := api.do(http.MethodGet, tt.path, "", nil)
			require.Equal(t, tt.code, code)
		})
	}
}
