package worker

import (
	"context"
	"image"
	"log"
	"runtime"
	"sync"
)

// Handler processes one snapshot. It runs on a worker goroutine and must
// not touch state owned by the event loop.
type Handler func(ctx context.Context, frame *image.RGBA) error

// ResultCallback is invoked on completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(err error)

// Pool is a fixed-size snapshot worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs    chan job
	handler Handler
	wg      sync.WaitGroup
	once    sync.Once
}

type job struct {
	ctx   context.Context
	frame *image.RGBA
	cb    ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int, handler Handler) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1), handler: handler}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				b := j.frame.Bounds()
				log.Printf("Worker: exporting snapshot %dx%d", b.Dx(), b.Dy())
				err := p.run(j.ctx, j.frame)
				log.Printf("Worker: snapshot done, err=%v", err)
				if j.cb != nil {
					j.cb(err)
				}
			}
		}()
	}
}

// Submit enqueues a snapshot if the single-slot queue is free. Returns false if dropped.
// The pool takes ownership of frame.
func (p *Pool) Submit(ctx context.Context, frame *image.RGBA, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, frame: frame, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// run calls the handler, returning early with ctx.Err() if ctx expires first.
func (p *Pool) run(ctx context.Context, frame *image.RGBA) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		return p.handler(ctx, frame)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- p.handler(ctx, frame) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		// The handler keeps running in the background; the caller sees the timeout.
		return ctx.Err()
	}
}
