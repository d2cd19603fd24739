package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dashfinance/internal/config"
	"dashfinance/internal/models"
)

func newTestIssuer(ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer(&config.Config{
		JWTSecret:        "test-secret",
		JWTExpirationDur: ttl,
	})
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	user := &models.User{}
	user.ID = "0195a4c2-1111-7000-8000-000000000001"

	token, err := issuer.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	subject, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if subject != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, subject)
	}
}

func TestTokenIssuerParse(t *testing.T) {
	issuer := newTestIssuer(time.Hour)

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := issuer.Parse("not-a-token"); err == nil {
			t.Error("expected an error for a malformed token")
		}
	})

	t.Run("rejects_wrong_secret", func(t *testing.T) {
		other := NewTokenIssuer(&config.Config{JWTSecret: "other-secret", JWTExpirationDur: time.Hour})
		user := &models.User{}
		user.ID = "0195a4c2-1111-7000-8000-000000000002"

		token, err := other.Generate(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if _, err := issuer.Parse(token); err == nil {
			t.Error("expected an error for a token signed with a different secret")
		}
	})

	t.Run("rejects_expired", func(t *testing.T) {
		expired := newTestIssuer(-time.Minute)
		user := &models.User{}
		user.ID = "0195a4c2-1111-7000-8000-000000000003"

		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if _, err := issuer.Parse(token); err == nil {
			t.Error("expected an error for an expired token")
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newTestIssuer(time.Hour)

	newRouter := func() (*gin.Engine, *string) {
		var seenUserID string
		router := gin.New()
		router.GET("/protected", issuer.Middleware(), func(c *gin.Context) {
			seenUserID = c.GetString("userID")
			c.Status(http.StatusOK)
		})
		return router, &seenUserID
	}

	t.Run("missing_header", func(t *testing.T) {
		router, _ := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		router, _ := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		router, _ := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid_token_sets_user_id", func(t *testing.T) {
		router, seenUserID := newRouter()
		user := &models.User{}
		user.ID = "0195a4c2-1111-7000-8000-000000000004"

		token, err := issuer.Generate(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if *seenUserID != user.ID {
			t.Errorf("expected userID %s in context, got %s", user.ID, *seenUserID)
		}
	})
}

func TestHashLoginCode(t *testing.T) {
	if got := HashLoginCode("123456"); len(got) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(got))
	}
	if HashLoginCode("123456") != HashLoginCode("123456") {
		t.Error("expected a deterministic hash")
	}
	if HashLoginCode("123456") == HashLoginCode("123457") {
		t.Error("expected different codes to hash differently")
	}
}
