package api

import (
	"context"

	"github.com/rpupo63/bloggie/auth"
)

type keyType string

const (
	principalKey keyType = "principal"
)

// ctxWithPrincipal adds the authenticated caller to the context
func ctxWithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ctxGetPrincipal retrieves the authenticated caller from the context
func ctxGetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}
