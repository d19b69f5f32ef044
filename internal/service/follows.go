package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
)

//go:generate mockgen -source=follows.go -destination=./follow_storage_mock.go -package=service
type FollowStorage interface {
	// CreateFollow inserts the edge or fails with ErrDuplicateFollow when the
	// (UserID, FollowingID) pair already exists. The check and the insert are
	// one atomic operation.
	CreateFollow(ctx context.Context, follow model.Follow) (model.Follow, error)
	ListFollows(ctx context.Context, params storage.ListFollowsParams) ([]model.Follow, error)
	FollowExists(ctx context.Context, userID, followingID int64) (bool, error)
}

type FollowService struct {
	followStorage FollowStorage
	userStorage   UserStorage
	tx            TxManager
}

func NewFollowService(followStorage FollowStorage, userStorage UserStorage, tx TxManager) *FollowService {
	return &FollowService{
		followStorage: followStorage,
		userStorage:   userStorage,
		tx:            tx,
	}
}

func (s *FollowService) ListFollows(ctx context.Context, p model.Principal, search string) ([]model.Follow, error) {
	if err := requireRead(p); err != nil {
		return nil, err
	}
	return s.followStorage.ListFollows(ctx, storage.ListFollowsParams{Search: strings.TrimSpace(search)})
}

// CreateFollow makes p follow the user named in the payload's "following".
// An existing edge is reported without attempting the insert; the insert
// itself still rejects a duplicate that races past the check.
func (s *FollowService) CreateFollow(ctx context.Context, p model.Principal, decode Decoder) (model.Follow, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.Follow{}, err
	}

	req, err := decodeRequest[CreateFollowRequest](decode)
	if err != nil {
		return model.Follow{}, err
	}
	req.Following = strings.TrimSpace(req.Following)
	if err := validateStruct(req); err != nil {
		return model.Follow{}, err
	}

	var out model.Follow
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		followee, err := s.ResolveFollowee(ctx, req.Following)
		if err != nil {
			return err
		}
		if IsSelfFollow(p.UserID, followee.ID) {
			return NewValidationError("following", "You cannot follow yourself.").Wrap(ErrSelfFollow)
		}

		exists, err := s.isDuplicateFollow(ctx, p.UserID, followee.ID)
		if err != nil {
			return err
		}
		if exists {
			return duplicateFollowError(followee.Username, ErrDuplicateFollow)
		}

		out, err = s.followStorage.CreateFollow(ctx, model.Follow{
			UserID:      p.UserID,
			User:        p.Username,
			FollowingID: followee.ID,
			Following:   followee.Username,
		})
		if errors.Is(err, ErrDuplicateFollow) {
			return duplicateFollowError(followee.Username, err)
		}
		return err
	})
	if err != nil {
		return model.Follow{}, err
	}
	return out, nil
}

// ResolveFollowee finds the user a follow request points at. An unknown
// username is a validation error on the "following" field.
func (s *FollowService) ResolveFollowee(ctx context.Context, username string) (model.User, error) {
	u, err := s.userStorage.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return model.User{}, NewValidationError("following",
			fmt.Sprintf("Object with username=%s does not exist.", username)).Wrap(err)
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// isDuplicateFollow reports whether userID already follows followingID.
func (s *FollowService) isDuplicateFollow(ctx context.Context, userID, followingID int64) (bool, error) {
	return s.followStorage.FollowExists(ctx, userID, followingID)
}

func duplicateFollowError(username string, cause error) error {
	return NewValidationError("following", fmt.Sprintf("You already follow %s.", username)).Wrap(cause)
}
