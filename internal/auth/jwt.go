package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhive/taskhive-be/internal/services"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "token"

// TokenTTL is the lifetime of an issued session token.
const TokenTTL = 7 * 24 * time.Hour

var jwtKey []byte

// Init sets the signing key. Must be called once at startup before any
// token is issued or verified.
func Init(secret string) {
	jwtKey = []byte(secret)
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Actor is the authenticated identity attached to a request. It never
// carries the password hash.
type Actor struct {
	ID    string
	Name  string
	Email string
}

type contextKey string

const actorKey = contextKey("actor")

// ActorFromContext returns the actor resolved by the gate middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// GenerateJWT creates a signed session token for a user ID.
func GenerateJWT(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TokenFromRequest extracts the session token from the cookie, falling back
// to an Authorization bearer header. Empty string when absent.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	return ""
}

// ResolveActor turns a raw token into a verified actor, rejecting if the
// token is invalid or the user no longer exists.
func ResolveActor(tokenStr string, users services.UserServiceProvider) (Actor, error) {
	claims, err := ValidateJWT(tokenStr)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	user, err := users.GetUserByID(claims.UserID)
	if err != nil {
		return Actor{}, fmt.Errorf("user not found: %w", err)
	}
	return Actor{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Middleware gates routes behind a verified credential. Fails closed: any
// missing, invalid, or expired token, or a token whose user no longer
// exists, is a 401. There is no anonymous fallback.
func Middleware(users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				unauthorized(w, "Not authorized, no token")
				return
			}

			actor, err := ResolveActor(tokenStr, users)
			if err != nil {
				unauthorized(w, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}
