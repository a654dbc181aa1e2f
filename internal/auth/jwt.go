// Package auth issues and verifies HS256 access tokens and carries the
// verified user id through request contexts.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTypeAccess = "access"

var ErrInvalidToken = errors.New("invalid token")

type TokenClaims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for uid valid for ttl.
func IssueToken(secret []byte, uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID:    uid,
		Email:     email,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken parses raw and checks signature, expiry and token type.
func VerifyToken(raw string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.TokenType != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxClaimsKey struct{}

// Claims returns the verified claims stored by Middleware, if any.
func Claims(ctx context.Context) (*TokenClaims, bool) {
	c, ok := ctx.Value(ctxClaimsKey{}).(*TokenClaims)
	return c, ok
}

func UserID(ctx context.Context) string {
	if c, ok := Claims(ctx); ok {
		return c.UserID
	}
	return ""
}

func WithClaims(ctx context.Context, c *TokenClaims) context.Context {
	return context.WithValue(ctx, ctxClaimsKey{}, c)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Middleware verifies a bearer token when one is sent. Requests without a
// token pass through anonymously; a bad token is rejected with 401.
func Middleware(secret []byte, onError func(w http.ResponseWriter, status int, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del("X-User-Id")

			raw, ok := BearerToken(r)
			if !ok {
				if r.Header.Get("Authorization") != "" {
					onError(w, http.StatusUnauthorized, "invalid Authorization header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := VerifyToken(raw, secret)
			if err != nil {
				onError(w, http.StatusUnauthorized, err.Error())
				return
			}
			r.Header.Set("X-User-Id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
