package ports

import "context"

// TxManager scopes repository calls made with the ctx passed to fn to one
// transaction. Nested calls share the outermost transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
