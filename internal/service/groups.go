package service

import (
	"context"

	"yatube/internal/model"
)

//go:generate mockgen -source=groups.go -destination=./group_storage_mock.go -package=service
type GroupStorage interface {
	CreateGroup(ctx context.Context, group model.Group) (model.Group, error)
	GetGroupByID(ctx context.Context, groupID int64) (model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	UpdateGroup(ctx context.Context, groupID int64, title string) (model.Group, error)
	DeleteGroup(ctx context.Context, groupID int64) error
}

// GroupService manages groups. Groups have no owner: any authenticated
// principal may change them.
type GroupService struct {
	groupStorage GroupStorage
	tx           TxManager
}

func NewGroupService(groupStorage GroupStorage, tx TxManager) *GroupService {
	return &GroupService{
		groupStorage: groupStorage,
		tx:           tx,
	}
}

func (s *GroupService) ListGroups(ctx context.Context, p model.Principal) ([]model.Group, error) {
	if err := requireRead(p); err != nil {
		return nil, err
	}
	return s.groupStorage.ListGroups(ctx)
}

func (s *GroupService) GetGroup(ctx context.Context, p model.Principal, groupID int64) (model.Group, error) {
	if err := requireRead(p); err != nil {
		return model.Group{}, err
	}
	return getOrNotFound(ctx, groupID, s.groupStorage.GetGroupByID)
}

func (s *GroupService) CreateGroup(ctx context.Context, p model.Principal, decode Decoder) (model.Group, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.Group{}, err
	}

	req, err := decodeRequest[CreateGroupRequest](decode)
	if err != nil {
		return model.Group{}, err
	}

	req.Title = trimText(req.Title)
	if err := validateStruct(req); err != nil {
		return model.Group{}, err
	}
	return s.groupStorage.CreateGroup(ctx, model.Group{Title: req.Title})
}

func (s *GroupService) UpdateGroup(ctx context.Context, p model.Principal, groupID int64, decode Decoder) (model.Group, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.Group{}, err
	}

	var out model.Group
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		group, err := getOrNotFound(ctx, groupID, s.groupStorage.GetGroupByID)
		if err != nil {
			return err
		}

		req, err := decodeRequest[UpdateGroupRequest](decode)
		if err != nil {
			return err
		}
		req.Title = trimTextPtr(req.Title)
		if err := validateStruct(req); err != nil {
			return err
		}
		if req.Title == nil {
			out = group
			return nil
		}

		out, err = s.groupStorage.UpdateGroup(ctx, groupID, *req.Title)
		return err
	})
	if err != nil {
		return model.Group{}, err
	}
	return out, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, p model.Principal, groupID int64) error {
	if err := requireAuthenticated(p); err != nil {
		return err
	}
	if groupID <= 0 {
		return ErrNotFound
	}
	return s.groupStorage.DeleteGroup(ctx, groupID)
}
