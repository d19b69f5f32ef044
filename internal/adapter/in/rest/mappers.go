package rest

import (
	"time"

	"yatube/internal/model"
)

type postResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Group   *int64    `json:"group"`
	PubDate time.Time `json:"pub_date"`
}

type commentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Post    int64     `json:"post"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

type followResponse struct {
	User      string `json:"user"`
	Following string `json:"following"`
}

type groupResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toPostResponse(p model.Post) postResponse {
	return postResponse{
		ID:      p.ID,
		Text:    p.Text,
		Author:  p.Author,
		Group:   p.GroupID,
		PubDate: p.PubDate,
	}
}

func toCommentResponse(c model.Comment) commentResponse {
	return commentResponse{
		ID:      c.ID,
		Author:  c.Author,
		Post:    c.PostID,
		Text:    c.Text,
		Created: c.Created,
	}
}

func toFollowResponse(f model.Follow) followResponse {
	return followResponse{
		User:      f.User,
		Following: f.Following,
	}
}

func toGroupResponse(g model.Group) groupResponse {
	return groupResponse{ID: g.ID, Title: g.Title}
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

// mapAll converts a slice; the result is never nil so empty lists encode
// as [].
func mapAll[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
