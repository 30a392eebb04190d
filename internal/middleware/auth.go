package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Ankush-patel1/Fitness/internal/auth"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	SessionTokenHeader = "X-FIT-TOKEN"
	bearerPrefix       = "Bearer "
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionChecker interface {
	SessionUser(ctx context.Context, token string) (string, error)
}

type accessTokenParser interface {
	Parse(token string) (string, error)
}

// AuthMiddlewareHandler resolves the caller of every non-public route to a user
// id, either from a bearer access token or from a session token, and puts it
// into the request context.
type AuthMiddlewareHandler struct {
	sessionChecker sessionChecker
	tokenParser    accessTokenParser
	allowedPaths   map[string]bool
}

func NewAuthMiddlewareHandler(
	sessionChecker sessionChecker,
	tokenParser accessTokenParser,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessionChecker: sessionChecker,
		tokenParser:    tokenParser,
		allowedPaths: map[string]bool{
			"/":           true,
			"/version":    true,
			"/a/login":    true,
			"/a/register": true,
		},
	}
}

func (h *AuthMiddlewareHandler) resolveUser(ctx context.Context, r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, bearerPrefix) {
		return h.tokenParser.Parse(strings.TrimPrefix(authHeader, bearerPrefix))
	}
	return h.sessionChecker.SessionUser(ctx, r.Header.Get(SessionTokenHeader))
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("Authorization") == "" && r.Header.Get(SessionTokenHeader) == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.resolveUser(ctx, r)
			switch {
			case errors.Is(err, auth.ErrNotLogged), errors.Is(err, auth.ErrInvalidToken):
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			case err != nil:
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
