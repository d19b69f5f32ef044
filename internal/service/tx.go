package service

import "context"

// TxManager runs fn in a single storage transaction. Storage calls made with
// the ctx passed to fn join that transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
