package model

import "time"

// Follow is a directed edge: User follows Following.
type Follow struct {
	ID          int64
	UserID      int64
	User        string
	FollowingID int64
	Following   string
	CreatedAt   time.Time
}
