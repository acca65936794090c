// Package security carries the authenticated caller through a request.
// The resource layer only ever asks for the current login.
package security

import "context"

type loginKey struct{}

// WithLogin returns a context carrying the authenticated login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey{}, login)
}

// CurrentLogin returns the login of the authenticated caller, if any.
func CurrentLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey{}).(string)
	return login, ok && login != ""
}
