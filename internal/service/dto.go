package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decoder fills dst from a request payload. Use-cases call it only once the
// target entity is loaded and the caller is allowed to change it, so a bad
// payload never hides a 404 or 403.
type Decoder func(dst any) error

// Payload wraps an already decoded request.
func Payload[T any](req T) Decoder {
	return func(dst any) error {
		out, ok := dst.(*T)
		if !ok {
			return fmt.Errorf("payload %T cannot fill %T", req, dst)
		}
		*out = req
		return nil
	}
}

func decodeRequest[T any](decode Decoder) (T, error) {
	var req T
	if err := decode(&req); err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return req, err
		}
		return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return req, nil
}

type CreatePostRequest struct {
	Text  string `json:"text" validate:"required"`
	Group *int64 `json:"group"`
}

type UpdatePostRequest struct {
	Text  *string    `json:"text" validate:"omitnil,min=1"`
	Group OptionalID `json:"group"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text" validate:"omitnil,min=1"`
}

type CreateGroupRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type UpdateGroupRequest struct {
	Title *string `json:"title" validate:"omitnil,min=1,max=200"`
}

type CreateFollowRequest struct {
	Following string `json:"following" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// OptionalID tells an absent JSON field apart from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

func SomeID(v int64) OptionalID {
	return OptionalID{Set: true, Value: &v}
}

func NullID() OptionalID {
	return OptionalID{Set: true}
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
