package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when work is submitted after Shutdown
var ErrPoolClosed = errors.New("worker pool is shut down")

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// task pairs a job with the caller's context and its reply channel
type task struct {
	ctx  context.Context
	job  Job
	done chan Result
}

// Pool bounds how many jobs run at once. Submissions beyond the worker count
// wait in the queue instead of failing.
type Pool struct {
	workers    int
	jobQueue   chan *task
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	startOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan *task, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Workers returns the number of workers
func (p *Pool) Workers() int {
	return p.workers
}

// Start starts the worker goroutines. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t := <-p.jobQueue:
			// The caller gave up while the task was queued.
			if t.ctx.Err() != nil {
				t.done <- errorResult{err: t.ctx.Err()}
				continue
			}
			t.done <- t.job.Execute(t.ctx)
		}
	}
}

// Submit queues a job and returns a channel that receives its result.
// It blocks while the queue is full.
func (p *Pool) Submit(ctx context.Context, job Job) (<-chan Result, error) {
	t := &task{ctx: ctx, job: job, done: make(chan Result, 1)}

	select {
	case <-p.ctx.Done():
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case p.jobQueue <- t:
		return t.done, nil
	}
}

// Run submits a job and waits for its result
func (p *Pool) Run(ctx context.Context, job Job) (Result, error) {
	done, err := p.Submit(ctx, job)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, ErrPoolClosed
	}
}

// Shutdown stops the workers and waits for running jobs to return
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

type errorResult struct {
	err error
}

func (r errorResult) GetError() error {
	return r.err
}
