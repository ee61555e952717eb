package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

type contextKey string

const (
	VoterKey contextKey = "voter"
	RoleKey  contextKey = "role"
)

// RoleNode marks tokens issued to governance gateways. Only they may cast
// ledger votes on behalf of other voters.
const RoleNode = "node"

// NewAuthMiddleware accepts HS256 access tokens from the access_token cookie
// or an Authorization bearer header and stores the token subject as the voter.
// With an empty secret every request is rejected.
func NewAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				http.Error(w, "Unauthorized: authentication is not configured", http.StatusUnauthorized)
				return
			}

			tokenStr := accessToken(r)
			if tokenStr == "" {
				http.Error(w, "Unauthorized: missing access token", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized: invalid access token", http.StatusUnauthorized)
				return
			}

			voter, err := claims.GetSubject()
			if err != nil || voter == "" {
				http.Error(w, "Unauthorized: token has no subject", http.StatusUnauthorized)
				return
			}
			role, _ := claims["role"].(string)

			ctx := context.WithValue(r.Context(), VoterKey, voter)
			ctx = context.WithValue(ctx, RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthorizeLedgerCast lets node tokens cast ledger votes for any voter.
// Voters must go through the vote route so the search index follows.
func AuthorizeLedgerCast(r *http.Request, voter string) error {
	if _, err := voterFromContext(r.Context()); err != nil {
		return domain.ErrForbidden
	}
	if role, _ := r.Context().Value(RoleKey).(string); role != RoleNode {
		return domain.ErrForbidden
	}
	return nil
}

func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func voterFromContext(ctx context.Context) (string, error) {
	voter, ok := ctx.Value(VoterKey).(string)
	if !ok || voter == "" {
		return "", errors.New("missing voter context")
	}
	return voter, nil
}
