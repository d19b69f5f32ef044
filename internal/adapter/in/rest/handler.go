package rest

import (
	"context"

	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/labstack/echo/v4"
)

type PostService interface {
	ListPosts(ctx context.Context, p model.Principal, groupID *int64) ([]model.Post, error)
	GetPost(ctx context.Context, p model.Principal, postID int64) (model.Post, error)
	CreatePost(ctx context.Context, p model.Principal, decode service.Decoder) (model.Post, error)
	UpdatePost(ctx context.Context, p model.Principal, postID int64, decode service.Decoder) (model.Post, error)
	DeletePost(ctx context.Context, p model.Principal, postID int64) error
}

type CommentService interface {
	ListComments(ctx context.Context, p model.Principal, postID int64) ([]model.Comment, error)
	GetComment(ctx context.Context, p model.Principal, postID, commentID int64) (model.Comment, error)
	CreateComment(ctx context.Context, p model.Principal, postID int64, decode service.Decoder) (model.Comment, error)
	UpdateComment(ctx context.Context, p model.Principal, postID, commentID int64, decode service.Decoder) (model.Comment, error)
	DeleteComment(ctx context.Context, p model.Principal, postID, commentID int64) error
}

type GroupService interface {
	ListGroups(ctx context.Context, p model.Principal) ([]model.Group, error)
	GetGroup(ctx context.Context, p model.Principal, groupID int64) (model.Group, error)
	CreateGroup(ctx context.Context, p model.Principal, decode service.Decoder) (model.Group, error)
	UpdateGroup(ctx context.Context, p model.Principal, groupID int64, decode service.Decoder) (model.Group, error)
	DeleteGroup(ctx context.Context, p model.Principal, groupID int64) error
}

type FollowService interface {
	ListFollows(ctx context.Context, p model.Principal, search string) ([]model.Follow, error)
	CreateFollow(ctx context.Context, p model.Principal, decode service.Decoder) (model.Follow, error)
}

type UserService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
}

type TokenIssuer interface {
	IssuePair(u model.User) (auth.TokenPair, error)
	IssueAccess(u model.User) (string, error)
	Parse(token string, want auth.TokenType) (*auth.Claims, error)
}

type Services struct {
	Posts    PostService
	Comments CommentService
	Groups   GroupService
	Follows  FollowService
	Users    UserService
}

type Handler struct {
	posts    PostService
	comments CommentService
	groups   GroupService
	follows  FollowService
	users    UserService
	tokens   TokenIssuer

	enableSignup bool
}

func NewHandler(svc Services, tokens TokenIssuer, enableSignup bool) *Handler {
	return &Handler{
		posts:        svc.Posts,
		comments:     svc.Comments,
		groups:       svc.Groups,
		follows:      svc.Follows,
		users:        svc.Users,
		tokens:       tokens,
		enableSignup: enableSignup,
	}
}

// Register mounts the API under g. Resource routes resolve the bearer token
// into a principal; token and signup routes ignore it.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/token", h.obtainToken)
	g.POST("/token/refresh", h.refreshToken)
	g.POST("/users", h.register)

	authn := h.authenticate()

	g.GET("/posts", h.listPosts, authn)
	g.POST("/posts", h.createPost, authn)
	g.GET("/posts/:id", h.getPost, authn)
	g.PUT("/posts/:id", h.updatePost, authn)
	g.PATCH("/posts/:id", h.updatePost, authn)
	g.DELETE("/posts/:id", h.deletePost, authn)

	g.GET("/posts/:post_id/comments", h.listComments, authn)
	g.POST("/posts/:post_id/comments", h.createComment, authn)
	g.GET("/posts/:post_id/comments/:id", h.getComment, authn)
	g.PUT("/posts/:post_id/comments/:id", h.updateComment, authn)
	g.PATCH("/posts/:post_id/comments/:id", h.updateComment, authn)
	g.DELETE("/posts/:post_id/comments/:id", h.deleteComment, authn)

	g.GET("/follow", h.listFollows, authn)
	g.POST("/follow", h.createFollow, authn)

	g.GET("/group", h.listGroups, authn)
	g.POST("/group", h.createGroup, authn)
	g.GET("/group/:id", h.getGroup, authn)
	g.PUT("/group/:id", h.updateGroup, authn)
	g.PATCH("/group/:id", h.updateGroup, authn)
	g.DELETE("/group/:id", h.deleteGroup, authn)
}
