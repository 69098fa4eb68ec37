package widget

import (
	"context"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

type accountKey struct{}

// WithAccount attaches the verified caller account to ctx
func WithAccount(ctx context.Context, account entities.Account) context.Context {
	if account.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFrom returns the caller account carried by ctx, if any
func AccountFrom(ctx context.Context) (entities.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(entities.Account)
	return account, ok
}
