package model

import "time"

type Post struct {
	ID       int64
	Text     string
	AuthorID int64
	// Author is the author's username, resolved by the storage layer.
	Author  string
	GroupID *int64
	PubDate time.Time
}
