package domain

import "context"

// PermissionFunc is the callable form of a permission check. Any error it
// returns is treated as a denial; permission checks fail closed.
type PermissionFunc func(ctx context.Context, inst, principal any) (bool, error)

// Permission gates a transition on the acting principal. It is either an
// identifier resolved by an external authorizer, or a direct callable.
// The zero value means unconditionally permitted.
type Permission struct {
	ident string
	fn    PermissionFunc
}

// PermissionID names an externally resolved permission. The engine passes
// the identifier to the configured authorizer; it holds no permission data
// itself.
func PermissionID(ident string) Permission {
	return Permission{ident: ident}
}

// PermissionCheck wraps a direct permission callable.
func PermissionCheck(fn PermissionFunc) Permission {
	return Permission{fn: fn}
}

// IsZero reports whether no permission was declared.
func (p Permission) IsZero() bool {
	return p.ident == "" && p.fn == nil
}

// Identifier returns the identifier form, if any.
func (p Permission) Identifier() (string, bool) {
	return p.ident, p.ident != ""
}

// Func returns the callable form, if any.
func (p Permission) Func() (PermissionFunc, bool) {
	return p.fn, p.fn != nil
}
