package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhive/taskhive-be/internal/apperr"
	"github.com/taskhive/taskhive-be/internal/models"
)

type stubUserService struct {
	users map[string]models.User
}

func (s *stubUserService) GetUserByID(id string) (models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, apperr.NotFound("User not found")
}

func (s *stubUserService) Register(name, email, password string) (models.User, error) {
	return models.User{}, nil
}

func (s *stubUserService) Authenticate(email, password string) (models.User, error) {
	return models.User{}, nil
}

func (s *stubUserService) UpdateProfile(id string, name, email *string) (models.User, error) {
	return models.User{}, nil
}

func (s *stubUserService) ListUsers() ([]models.User, error) { return nil, nil }

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret")

	token, err := GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("userId = %q, want user-1", claims.UserID)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token has no expiry")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("token ttl = %v, want about 7 days", ttl)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	Init("test-secret")

	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	Init("test-secret")

	token, err := GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	Init("other-secret")
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("token signed with a different key accepted")
	}
}

func TestResolveActor(t *testing.T) {
	Init("test-secret")
	users := &stubUserService{users: map[string]models.User{
		"user-1": {ID: "user-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"},
	}}

	token, err := GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	actor, err := ResolveActor(token, users)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if actor.ID != "user-1" || actor.Name != "Alice" || actor.Email != "alice@example.com" {
		t.Errorf("actor = %+v", actor)
	}

	// A valid token for a user that no longer exists must fail closed.
	ghost, err := GenerateJWT("deleted-user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ResolveActor(ghost, users); err == nil {
		t.Fatal("token for a deleted user accepted")
	}
}

func TestMiddleware(t *testing.T) {
	Init("test-secret")
	users := &stubUserService{users: map[string]models.User{
		"user-1": {ID: "user-1", Name: "Alice", Email: "alice@example.com"},
	}}

	var gotActor Actor
	var called bool
	handler := Middleware(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, _ = ActorFromContext(r.Context())
		called = true
	}))

	// No credential: rejected, never a degraded anonymous actor.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler reached without a credential")
	}

	// Garbage cookie: rejected.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("garbage token: status = %d, called = %v", rec.Code, called)
	}

	// Valid cookie: actor attached from the store, not the token.
	token, err := GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !called || gotActor.ID != "user-1" || gotActor.Name != "Alice" {
		t.Errorf("actor = %+v", gotActor)
	}

	// Bearer header fallback.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("bearer fallback: status = %d, want 200", rec.Code)
	}
}
