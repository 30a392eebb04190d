package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

// Checker answers whether a session token still belongs to someone.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
	SessionUser(ctx context.Context, token string) (string, error)
	// Forget drops any locally cached state for the token.
	Forget(token string)
}
