package service

import (
	"context"
	"errors"

	"yatube/internal/model"
)

// passTx runs fn inline; storage mocks don't care about transactions.
type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	alice = model.Principal{UserID: 1, Username: "alice"}
	bob   = model.Principal{UserID: 2, Username: "bob"}
	anon  = model.Anonymous()
)

func ptrI64(v int64) *int64 { return &v }

func ptrStr(v string) *string { return &v }

// badBody fails the way a payload of the wrong shape does.
func badBody(any) error {
	return errors.New("json: cannot unmarshal number into Go struct field of type string")
}
