package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/twgen/pkg/util"
)

// fileJob is one file to tokenize.
type fileJob struct {
	Path  string
	JobID int
}

// fileResult is the tokenized content of one file.
type fileResult struct {
	Path     string
	Sig      Signature
	Tokens   []string
	Precise  bool
	CacheHit bool
	JobID    int
}

type processFunc func(ctx context.Context, job fileJob) (fileResult, error)

// WorkerPool runs one job per file on a fixed set of goroutines. Results and
// errors are delivered on separate channels that close once every worker has
// exited.
//
//	pool := newWorkerPool(ctx, n, process, logger)
//	pool.Start()
//	go func() {
//	    for _, f := range files {
//	        pool.Submit(fileJob{Path: f})
//	    }
//	    pool.Stop()
//	}()
//	// drain pool.Results() and pool.Errors() until both close
type WorkerPool struct {
	numWorkers int
	jobs       chan fileJob
	results    chan fileResult
	errors     chan *ScanIOError
	wg         sync.WaitGroup
	process    processFunc
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// newWorkerPool creates a pool bound to ctx. numWorkers == 0 sizes the pool
// with util.GetOptimalPoolSize, matching the parser pool.
func newWorkerPool(ctx context.Context, numWorkers int, process processFunc, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan fileJob, numWorkers*2),
		results:    make(chan fileResult, numWorkers),
		errors:     make(chan *ScanIOError, numWorkers),
		process:    process,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job fileJob) {
	res, err := wp.process(wp.ctx, job)
	if err != nil {
		if wp.ctx.Err() != nil {
			return
		}
		wp.jobsFailed.Add(1)
		wp.logger.Debug("scan failed", "worker_id", workerID, "file", job.Path, "error", err)
		wp.errors <- &ScanIOError{Path: job.Path, Err: err}
		return
	}
	res.JobID = job.JobID
	wp.jobsProcessed.Add(1)
	wp.results <- res
}

// Submit enqueues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job fileJob) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobsSubmitted.Add(1)
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan fileResult { return wp.results }

// Errors returns the per-file error channel.
func (wp *WorkerPool) Errors() <-chan *ScanIOError { return wp.errors }

// FinishSubmitting closes the job queue. Safe to call more than once.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Stop closes the job queue, waits for the workers to drain it, then closes
// the result and error channels. It must be called from the goroutine that
// submits. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	wp.FinishSubmitting()
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"workers", wp.numWorkers,
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// Stats returns pool counters.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
	}
}

// WorkerPoolStats contains worker pool counters.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
}
