package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yatube/internal/model"
)

//go:generate mockgen -source=users.go -destination=./user_storage_mock.go -package=service
type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type UserService struct {
	userStorage UserStorage
	hasher      PasswordHasher
}

func NewUserService(userStorage UserStorage, hasher PasswordHasher) *UserService {
	return &UserService{
		userStorage: userStorage,
		hasher:      hasher,
	}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: hash,
	})
	if errors.Is(err, ErrUsernameTaken) {
		return model.User{}, NewValidationError("username", "A user with that username already exists.").Wrap(err)
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}

	u, err := s.userStorage.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (model.User, error) {
	return getOrNotFound(ctx, userID, s.userStorage.GetUserByID)
}
