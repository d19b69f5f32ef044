package service

import (
	"fmt"

	"yatube/internal/model"
)

// CanRead reports whether p may read a resource. Every resource is readable
// by anonymous and authenticated principals alike.
func CanRead(_ model.Principal) bool {
	return true
}

// CanModify reports whether p may update or delete an entity written by
// authorID.
func CanModify(p model.Principal, authorID int64) bool {
	return p.IsAuthenticated() && p.UserID == authorID
}

// IsSelfFollow reports whether a follow edge would point back at its
// follower. Such edges are rejected.
func IsSelfFollow(userID, followingID int64) bool {
	return userID == followingID
}

func requireAuthenticated(p model.Principal) error {
	if !p.IsAuthenticated() {
		return fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	return nil
}

func requireRead(p model.Principal) error {
	if !CanRead(p) {
		return ErrForbidden
	}
	return nil
}

func requireOwner(p model.Principal, authorID int64) error {
	if !CanModify(p, authorID) {
		return fmt.Errorf("%w: not the author", ErrForbidden)
	}
	return nil
}
