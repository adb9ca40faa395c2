// internal/auth/auth.go
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gracechapel/flocktext-backend/internal/httputil"
)

const tokenLifetime = 12 * time.Hour

type contextKey string

const adminEmailKey contextKey = "adminEmail"

// Claims carried by an admin token.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyAdminCredentials compares a login attempt against the configured
// admin identity in constant time.
func VerifyAdminCredentials(email, password, adminEmail, adminPassword string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(adminEmail))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword))
	return emailOK == 1 && passwordOK == 1
}

// SignAdminToken issues a 12-hour HS256 token for the admin.
func SignAdminToken(secret, email string, now time.Time) (string, error) {
	claims := Claims{
		Role:  "admin",
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Middleware rejects requests without a valid Bearer token and stashes the
// admin email for the send log's created_by_email.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				httputil.Error(w, http.StatusUnauthorized, "Missing Authorization Bearer token")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				httputil.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), adminEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminEmail returns the authenticated admin's email, or "" outside the
// middleware.
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}
