package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type stubParser struct {
	tokens map[string]services.Identity
}

func (p stubParser) ParseAccessToken(token string) (services.Identity, error) {
	id, ok := p.tokens[token]
	if !ok {
		return services.Identity{}, services.ErrUnauthorized
	}
	return id, nil
}

func newAuthRouter() *gin.Engine {
	parser := stubParser{tokens: map[string]services.Identity{
		"user-token":  {UserID: 7},
		"admin-token": {UserID: 1, IsAdmin: true},
	}}

	router := setupTestGin()
	api := router.Group("/", JWTAuth(parser))
	api.GET("/me", func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "is_admin": id.IsAdmin})
	})
	api.GET("/admin", AdminOnly(services.NewAuthorizationService(nil)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
		{"lowercase scheme", "bearer user-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("Expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	router := newAuthRouter()

	for token, want := range map[string]int{
		"user-token":  http.StatusForbidden,
		"admin-token": http.StatusOK,
	} {
		req, _ := http.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("%s: expected status %d, got %d", token, want, w.Code)
		}
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	router := setupTestGin()
	router.GET("/admin", AdminOnly(services.NewAuthorizationService(nil)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without identity, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	router := setupTestGin()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	generated := w.Header().Get(HeaderRequestID)
	if len(generated) != 36 || w.Body.String() != generated {
		t.Errorf("Expected generated UUID in header and context, got %q / %q", generated, w.Body.String())
	}

	req, _ = http.NewRequest("GET", "/test", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get(HeaderRequestID) != "abc-123" {
		t.Errorf("Expected incoming request id to be kept, got %q", w.Header().Get(HeaderRequestID))
	}
}

func TestSecureHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		router := setupTestGin()
		router.Use(SecureHeaders(production))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("X-Frame-Options") != "DENY" {
			t.Errorf("missing secure headers: %v", w.Header())
		}
		if hsts := w.Header().Get("Strict-Transport-Security") != ""; hsts != production {
			t.Errorf("production=%v: HSTS present=%v", production, hsts)
		}
	}
}

func TestRecoveryWithLog(t *testing.T) {
	router := setupTestGin()
	router.Use(RequestID(), RecoveryWithLog())
	router.GET("/panic", func(c *gin.Context) {
		panic(errors.New("boom"))
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", w.Code)
	}
}
