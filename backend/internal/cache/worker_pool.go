package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type JobResult struct {
	Job      WarmupJob
	Error    error
	Duration time.Duration
}

// WorkerPool bounds how many warmup jobs write to the cache at once.
type WorkerPool struct {
	workers int
	cache   Cache

	statsMu       sync.Mutex
	jobsProcessed int64
	totalDuration time.Duration
	errors        int64
}

func NewWorkerPool(workers int, cache Cache) *WorkerPool {
	if workers <= 0 {
		workers = 3
	}
	return &WorkerPool{workers: workers, cache: cache}
}

// RunBatch runs jobs with at most wp.workers in flight. A failing job does not
// stop the others; every job gets a result in its original position.
func (wp *WorkerPool) RunBatch(ctx context.Context, jobs []WarmupJob) []JobResult {
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(wp.workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = JobResult{Job: job, Error: err}
			continue
		}

		i, job := i, job
		g.Go(func() error {
			results[i] = wp.warm(ctx, job)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (wp *WorkerPool) warm(ctx context.Context, job WarmupJob) JobResult {
	start := time.Now()

	value, err := job.resolve(ctx)
	if err == nil {
		err = wp.cache.Set(job.Key, value, job.TTL)
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("❌ Failed to warm cache key %s: %v", job.Key, err)
	}

	wp.statsMu.Lock()
	wp.jobsProcessed++
	wp.totalDuration += elapsed
	if err != nil {
		wp.errors++
	}
	wp.statsMu.Unlock()

	return JobResult{Job: job, Error: err, Duration: elapsed}
}

func (job WarmupJob) resolve(ctx context.Context) (interface{}, error) {
	if job.Loader == nil {
		return job.Data, nil
	}
	return job.Loader(ctx)
}

func (wp *WorkerPool) GetStats() map[string]interface{} {
	wp.statsMu.Lock()
	defer wp.statsMu.Unlock()

	var avg time.Duration
	if wp.jobsProcessed > 0 {
		avg = wp.totalDuration / time.Duration(wp.jobsProcessed)
	}

	return map[string]interface{}{
		"workers":        wp.workers,
		"jobs_processed": wp.jobsProcessed,
		"total_errors":   wp.errors,
		"avg_duration":   avg.String(),
	}
}
