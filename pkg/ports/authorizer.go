package ports

import "context"

// Authorizer resolves identifier-form permissions. The engine holds no
// permission data; it delegates every string permission here. An error is
// treated as a denial.
type Authorizer interface {
	HasPermission(ctx context.Context, ident string, inst, principal any) (bool, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, ident string, inst, principal any) (bool, error)

func (f AuthorizerFunc) HasPermission(ctx context.Context, ident string, inst, principal any) (bool, error) {
	return f(ctx, ident, inst, principal)
}
