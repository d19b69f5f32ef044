package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserPasswordHashColumn = "password_hash"
	UserCreatedAtColumn    = "created_at"
)

const (
	GroupsTableName = "groups"

	GroupIDColumn    = "id"
	GroupTitleColumn = "title"
)

const (
	PostsTableName = "posts"

	PostIDColumn       = "id"
	PostTextColumn     = "text"
	PostAuthorIDColumn = "author_id"
	PostGroupIDColumn  = "group_id"
	PostPubDateColumn  = "pub_date"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn       = "id"
	CommentPostIDColumn   = "post_id"
	CommentAuthorIDColumn = "author_id"
	CommentTextColumn     = "text"
	CommentCreatedColumn  = "created"
)

const (
	FollowsTableName = "follows"

	FollowIDColumn          = "id"
	FollowUserIDColumn      = "user_id"
	FollowFollowingIDColumn = "following_id"
	FollowCreatedAtColumn   = "created_at"
)

// Qualified returns "table.column", used where joins make bare names ambiguous.
func Qualified(table, column string) string {
	return table + "." + column
}
