package monitoring

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

// Metrics aggregates request counters for the whole process.
type Metrics struct {
	mu sync.RWMutex

	RequestCount    int64
	RequestDuration time.Duration
	ActiveRequests  int64
	ErrorCount      int64
	StatusCodes     map[string]int64
	Endpoints       map[string]int64
	StartTime       time.Time
	LastRequest     time.Time

	totalDuration time.Duration
}

type MetricsSnapshot struct {
	RequestCount      int64            `json:"request_count"`
	AverageDurationMs float64          `json:"average_duration_ms"`
	ActiveRequests    int64            `json:"active_requests"`
	ErrorCount        int64            `json:"error_count"`
	StatusCodes       map[string]int64 `json:"status_codes"`
	Endpoints         map[string]int64 `json:"endpoints"`
	StartTime         time.Time        `json:"start_time"`
	LastRequest       time.Time        `json:"last_request"`
}

type MemoryUsage struct {
	Alloc      uint64 `json:"alloc_mb"`
	TotalAlloc uint64 `json:"total_alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
}

type SystemMetrics struct {
	Uptime         time.Duration `json:"uptime"`
	GoroutineCount int           `json:"goroutine_count"`
	CPUCount       int           `json:"cpu_count"`
	GoVersion      string        `json:"go_version"`
	MemoryUsage    MemoryUsage   `json:"memory_usage"`
}

// Collector contributes a named section to the /metrics document.
type Collector struct {
	Name    string
	Collect func() interface{}
}

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		globalMetrics.mu.Lock()
		globalMetrics.ActiveRequests++
		globalMetrics.mu.Unlock()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		endpoint = c.Request.Method + " " + endpoint

		globalMetrics.mu.Lock()
		defer globalMetrics.mu.Unlock()

		globalMetrics.ActiveRequests--
		globalMetrics.RequestCount++
		globalMetrics.totalDuration += elapsed
		globalMetrics.RequestDuration = globalMetrics.totalDuration / time.Duration(globalMetrics.RequestCount)
		globalMetrics.StatusCodes[http.StatusText(status)]++
		globalMetrics.Endpoints[endpoint]++
		globalMetrics.LastRequest = time.Now()
		if status >= http.StatusInternalServerError {
			globalMetrics.ErrorCount++
		}
	}
}

func GetMetrics() MetricsSnapshot {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	snap := MetricsSnapshot{
		RequestCount:      globalMetrics.RequestCount,
		AverageDurationMs: float64(globalMetrics.RequestDuration) / float64(time.Millisecond),
		ActiveRequests:    globalMetrics.ActiveRequests,
		ErrorCount:        globalMetrics.ErrorCount,
		StatusCodes:       make(map[string]int64, len(globalMetrics.StatusCodes)),
		Endpoints:         make(map[string]int64, len(globalMetrics.Endpoints)),
		StartTime:         globalMetrics.StartTime,
		LastRequest:       globalMetrics.LastRequest,
	}
	for k, v := range globalMetrics.StatusCodes {
		snap.StatusCodes[k] = v
	}
	for k, v := range globalMetrics.Endpoints {
		snap.Endpoints[k] = v
	}
	return snap
}

func GetSystemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemMetrics{
		Uptime:         time.Since(processStart),
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
		MemoryUsage: MemoryUsage{
			Alloc:      bToMb(m.Alloc),
			TotalAlloc: bToMb(m.TotalAlloc),
			Sys:        bToMb(m.Sys),
			NumGC:      m.NumGC,
		},
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

// MetricsHandler serves request and runtime metrics plus any extra collectors
// such as cache or connection-pool statistics.
func MetricsHandler(collectors ...Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"application": GetMetrics(),
			"system":      GetSystemMetrics(),
			"timestamp":   time.Now().UTC(),
		}
		for _, col := range collectors {
			body[col.Name] = col.Collect()
		}
		c.JSON(http.StatusOK, body)
	}
}
