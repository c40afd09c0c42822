package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/libs/auth"
	"github.com/planwerk/interviewplanner/libs/httpx"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

// Principal is the authenticated caller extracted from the bearer token.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

type principalKey struct{}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenVerifier checks a raw bearer token and returns its claims.
type TokenVerifier func(token string) (*auth.Claims, error)

// HS256Verifier verifies tokens signed with the shared secret.
func HS256Verifier(secret string) TokenVerifier {
	return func(token string) (*auth.Claims, error) {
		return auth.ParseAndVerifyHS256(token, secret)
	}
}

// JWKSVerifier verifies RS256 tokens against the identity provider's key
// set and falls back to the shared secret for HS256 tokens.
func JWKSVerifier(client *auth.JWKSClient, secret string) TokenVerifier {
	return func(token string) (*auth.Claims, error) {
		header, err := auth.ParseHeader(token)
		if err != nil {
			return nil, err
		}
		if header.Alg == "RS256" && header.Kid != "" {
			pub, err := client.Get(header.Kid)
			if err != nil {
				return nil, err
			}
			return auth.VerifyRS256(token, pub)
		}
		return auth.ParseAndVerifyHS256(token, secret)
	}
}

// Authenticate verifies the bearer token and stashes the caller identity
// in the request context. Requests without a valid token never reach a
// handler.
func Authenticate(verify TokenVerifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := verify(raw)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			id, err := uuid.Parse(claims.Sub)
			if err != nil {
				http.Error(w, "invalid subject claim", http.StatusUnauthorized)
				return
			}
			role, ok := model.ParseRole(claims.Role)
			if !ok {
				http.Error(w, "invalid role claim", http.StatusUnauthorized)
				return
			}
			p := Principal{ID: id, Email: claims.Email, Role: role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
		})
	}
}

// requirePrincipal fetches the caller and enforces that their role is one of
// the allowed ones. It writes the response itself on failure.
func (h *Handler) requirePrincipal(w http.ResponseWriter, r *http.Request, roles ...model.Role) (Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return Principal{}, false
	}
	for _, role := range roles {
		if p.Role == role {
			return p, true
		}
	}
	h.writeJSON(w, http.StatusForbidden, errorBody{Error: errorDetail{
		Code:    "ROLE_FORBIDDEN",
		Message: "caller role is not allowed to perform this operation",
	}})
	return Principal{}, false
}
