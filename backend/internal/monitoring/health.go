package monitoring

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	checkTimeout = 5 * time.Second
)

type CheckFunc func(ctx context.Context) error

type HealthCheck struct {
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CheckedAt  time.Time `json:"checked_at"`

	check CheckFunc
}

type healthChecker struct {
	mu     sync.RWMutex
	checks map[string]HealthCheck
}

var globalHealthChecker = &healthChecker{checks: make(map[string]HealthCheck)}

// RegisterHealthCheck adds or replaces a named dependency probe.
func RegisterHealthCheck(name string, check CheckFunc) {
	globalHealthChecker.mu.Lock()
	defer globalHealthChecker.mu.Unlock()
	globalHealthChecker.checks[name] = HealthCheck{Name: name, check: check}
}

// RunHealthChecks runs every probe concurrently, each under its own timeout.
func RunHealthChecks() map[string]HealthCheck {
	globalHealthChecker.mu.RLock()
	registered := make([]HealthCheck, 0, len(globalHealthChecker.checks))
	for _, hc := range globalHealthChecker.checks {
		registered = append(registered, hc)
	}
	globalHealthChecker.mu.RUnlock()

	results := make(map[string]HealthCheck, len(registered))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, hc := range registered {
		wg.Add(1)
		go func(hc HealthCheck) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()

			start := time.Now()
			err := hc.check(ctx)

			hc.Status = statusHealthy
			if err != nil {
				hc.Status = statusUnhealthy
				hc.Message = err.Error()
			}
			hc.DurationMs = time.Since(start).Milliseconds()
			hc.CheckedAt = time.Now().UTC()

			mu.Lock()
			results[hc.Name] = hc
			mu.Unlock()
		}(hc)
	}

	wg.Wait()
	return results
}

func allHealthy(checks map[string]HealthCheck) bool {
	for _, hc := range checks {
		if hc.Status != statusHealthy {
			return false
		}
	}
	return true
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := RunHealthChecks()

		status, code := statusHealthy, http.StatusOK
		if !allHealthy(checks) {
			status, code = statusUnhealthy, http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().UTC(),
		})
	}
}

func ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allHealthy(RunHealthChecks()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "alive",
			"uptime": time.Since(processStart).String(),
		})
	}
}
