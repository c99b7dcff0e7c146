package cache

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// WarmupJob describes one cache entry to populate. When Loader is set it is
// called on every run and its result replaces Data.
type WarmupJob struct {
	Key      string
	Data     interface{}
	Loader   func(ctx context.Context) (interface{}, error)
	TTL      time.Duration
	Priority int
}

type WarmupStrategy struct {
	BatchSize      int
	ConcurrentJobs int
	WarmupInterval time.Duration
}

func DefaultWarmupStrategy() *WarmupStrategy {
	return &WarmupStrategy{
		BatchSize:      10,
		ConcurrentJobs: 3,
		WarmupInterval: 10 * time.Minute,
	}
}

type CacheWarmer struct {
	cache    Cache
	strategy *WarmupStrategy
	pool     *WorkerPool

	mu      sync.Mutex
	jobs    []WarmupJob
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	lastRun time.Time
}

func NewCacheWarmer(cache Cache, strategy *WarmupStrategy) *CacheWarmer {
	if strategy == nil {
		strategy = DefaultWarmupStrategy()
	}
	if strategy.BatchSize <= 0 {
		strategy.BatchSize = 1
	}

	return &CacheWarmer{
		cache:    cache,
		strategy: strategy,
		pool:     NewWorkerPool(strategy.ConcurrentJobs, cache),
	}
}

// AddWarmupJob registers job, replacing any job already registered for its key.
func (w *CacheWarmer) AddWarmupJob(job WarmupJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.jobs {
		if w.jobs[i].Key == job.Key {
			w.jobs[i] = job
			return
		}
	}
	w.jobs = append(w.jobs, job)
}

func (w *CacheWarmer) snapshot() []WarmupJob {
	w.mu.Lock()
	defer w.mu.Unlock()

	jobs := make([]WarmupJob, len(w.jobs))
	copy(jobs, w.jobs)
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Priority > jobs[j].Priority
	})
	return jobs
}

// WarmCacheManually runs every registered job once, highest priority first,
// and returns the number of jobs that failed.
func (w *CacheWarmer) WarmCacheManually(ctx context.Context) int {
	jobs := w.snapshot()
	failed := 0

	for start := 0; start < len(jobs); start += w.strategy.BatchSize {
		end := start + w.strategy.BatchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		for _, result := range w.pool.RunBatch(ctx, jobs[start:end]) {
			if result.Error != nil {
				failed++
			}
		}
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	if len(jobs) > 0 {
		log.Printf("🔥 Cache warmup finished: %d jobs, %d failed", len(jobs), failed)
	}
	return failed
}

// Start warms the cache immediately and then every WarmupInterval until ctx
// is cancelled or Stop is called. A zero interval warms once.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go func() {
		defer close(done)

		w.WarmCacheManually(ctx)
		if w.strategy.WarmupInterval <= 0 {
			return
		}

		ticker := time.NewTicker(w.strategy.WarmupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.WarmCacheManually(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
}

func (w *CacheWarmer) GetStats() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys := make([]string, 0, len(w.jobs))
	for _, job := range w.jobs {
		keys = append(keys, job.Key)
	}

	stats := map[string]interface{}{
		"running":         w.running,
		"total_jobs":      len(w.jobs),
		"keys":            keys,
		"batch_size":      w.strategy.BatchSize,
		"concurrent_jobs": w.strategy.ConcurrentJobs,
		"interval":        w.strategy.WarmupInterval.String(),
		"pool":            w.pool.GetStats(),
	}
	if !w.lastRun.IsZero() {
		stats["last_run"] = w.lastRun
	}
	return stats
}
