package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func setupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

// loginRouter mounts limiter in front of a login endpoint that always succeeds.
func loginRouter(limiter gin.HandlerFunc) *gin.Engine {
	router := setupTestGin()
	router.POST("/api/v1/auth/login", limiter, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"access_token": "t", "token_type": "bearer"})
	})
	return router
}

func postLogin(router http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_TaskListingPerIP(t *testing.T) {
	router := setupTestGin()
	router.Use(RateLimiter(rate.Limit(1), 2))
	router.GET("/api/v1/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{})
	})

	steps := []struct {
		ip   string
		want int
	}{
		{"10.0.0.1", http.StatusOK},
		{"10.0.0.1", http.StatusOK},
		{"10.0.0.1", http.StatusTooManyRequests},
		{"10.0.0.2", http.StatusOK},
	}

	for i, step := range steps {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		req.RemoteAddr = step.ip + ":50000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != step.want {
			t.Errorf("step %d (%s): status = %d, want %d", i+1, step.ip, w.Code, step.want)
		}
	}
}

func TestLoginLimiter_Distributed(t *testing.T) {
	client, mr := setupTestRedis(t)
	router := loginRouter(LoginLimiter(client, 2))

	for i := 0; i < 2; i++ {
		if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := postLogin(router, "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", got)
	}
	if got := w.Header().Get("X-RateLimit-Window"); got != "1m0s" {
		t.Errorf("X-RateLimit-Window = %q, want 1m0s", got)
	}

	if w := postLogin(router, "10.0.0.2"); w.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", w.Code)
	}

	if !mr.Exists("rate_limit:login:10.0.0.1") {
		t.Errorf("expected a login window in redis, keys: %v", mr.Keys())
	}
	if ttl := mr.TTL("rate_limit:login:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("window TTL = %v, want (0, 1m]", ttl)
	}
}

func TestLoginLimiter_SharedAcrossInstances(t *testing.T) {
	client, _ := setupTestRedis(t)

	first := loginRouter(LoginLimiter(client, 1))
	second := loginRouter(LoginLimiter(client, 1))

	if w := postLogin(first, "10.0.0.9"); w.Code != http.StatusOK {
		t.Fatalf("first instance: status = %d, want 200", w.Code)
	}
	if w := postLogin(second, "10.0.0.9"); w.Code != http.StatusTooManyRequests {
		t.Errorf("second instance: status = %d, want 429", w.Code)
	}
}

func TestLoginLimiter_InProcessFallback(t *testing.T) {
	router := loginRouter(LoginLimiter(nil, 1))

	if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("first attempt: status = %d, want 200", w.Code)
	}
	if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("second attempt: status = %d, want 429", w.Code)
	}
}

func TestLoginLimiter_Disabled(t *testing.T) {
	client, mr := setupTestRedis(t)
	router := loginRouter(LoginLimiter(client, 0))

	for i := 0; i < 10; i++ {
		if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want 200", i+1, w.Code)
		}
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("disabled limiter wrote to redis: %v", keys)
	}
}

func TestDistributedRateLimiter_FailsOpenAndTripsBreaker(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()

	limiter := NewDistributedRateLimiter(client)
	router := loginRouter(limiter.CreateMiddleware("login", &RateLimit{
		Rate:    1,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	}))

	for i := 0; i < 6; i++ {
		w := postLogin(router, "10.0.0.1")
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected fail-open, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Error") != "true" {
			t.Errorf("attempt %d: missing X-RateLimit-Error header", i+1)
		}
	}

	if state := limiter.breaker.State(); state != "open" {
		t.Errorf("breaker state = %s, want open", state)
	}
	if _, ok := limiter.limits["login"]; !ok {
		t.Error("login limit was not registered")
	}
}

func TestDistributedRateLimiter_OnLimit(t *testing.T) {
	client, _ := setupTestRedis(t)

	calls := 0
	limiter := NewDistributedRateLimiter(client)
	router := loginRouter(limiter.CreateMiddleware("login", &RateLimit{
		Rate:    1,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
		OnLimit: func(c *gin.Context) {
			calls++
			c.JSON(http.StatusForbidden, gin.H{"error": "too many login attempts"})
		},
	}))

	postLogin(router, "10.0.0.1")
	w := postLogin(router, "10.0.0.1")

	if calls != 1 {
		t.Errorf("OnLimit called %d times, want 1", calls)
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 from OnLimit", w.Code)
	}
}

func TestPerMinute(t *testing.T) {
	tests := []struct {
		perMinute int
		want      rate.Limit
	}{
		{0, rate.Inf},
		{-3, rate.Inf},
		{60, rate.Limit(1)},
		{120, rate.Limit(2)},
	}

	for _, tt := range tests {
		if got := PerMinute(tt.perMinute); got != tt.want {
			t.Errorf("PerMinute(%d) = %v, want %v", tt.perMinute, got, tt.want)
		}
	}
}

func TestKeyFuncs(t *testing.T) {
	tests := []struct {
		name    string
		userID  interface{}
		keyFunc func(*gin.Context) string
		want    string
	}{
		{"ip", nil, IPKeyFunc, "172.16.0.4"},
		{"user without identity falls back to ip", nil, UserKeyFunc, "172.16.0.4"},
		{"authenticated user", int64(123), UserKeyFunc, "user:123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			router := setupTestGin()
			router.GET("/api/v1/tasks", func(c *gin.Context) {
				if tt.userID != nil {
					c.Set(ContextUserID, tt.userID)
				}
				got = tt.keyFunc(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			req.RemoteAddr = "172.16.0.4:31337"
			router.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkLoginLimiter(b *testing.B) {
	mr, err := miniredis.Run()
	if err != nil {
		b.Fatal(err)
	}
	defer mr.Close()

	router := loginRouter(LoginLimiter(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1_000_000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		postLogin(router, "10.0.0.1")
	}
}
