package storage

type ListPostsParams struct {
	// GroupID restricts the listing to posts tagged with this group when set.
	GroupID *int64
}

type UpdatePostParams struct {
	Text *string
	// SetGroup marks GroupID as part of the update; a nil GroupID then
	// clears the post's group.
	SetGroup bool
	GroupID  *int64
}

type ListFollowsParams struct {
	// Search matches the follower's or the followee's username exactly.
	Search string
}
