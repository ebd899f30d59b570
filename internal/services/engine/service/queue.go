package service

import (
	"context"
	"sync"

	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	"jakebot/internal/services/engine/domain"

	"github.com/google/uuid"
)

// Executor performs one job against the board
type Executor func(ctx context.Context, j domain.Job) error

// Queue is an unbounded FIFO with a single consumer. Run is the only place jobs execute,
// so at most one board action is ever in flight
type Queue struct {
	exec Executor
	log  *logger.Logger

	mu   sync.Mutex
	jobs []domain.Job
	busy bool
	idle []chan struct{}
	wake chan struct{}

	// OnDepth observes the backlog after every change
	OnDepth func(n int)
	// OnDone observes every finished job
	OnDone func(j domain.Job, err error)
}

// NewQueue builds a queue around exec
func NewQueue(exec Executor) *Queue {
	if exec == nil {
		panic("engine.Queue requires an executor")
	}
	return &Queue{
		exec: exec,
		log:  logger.Named("queue"),
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends j and wakes the consumer. It never blocks
func (q *Queue) Enqueue(j domain.Job) domain.Job {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	n := len(q.jobs)
	q.mu.Unlock()

	q.depth(n)
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return j
}

// Len is the number of jobs waiting, not counting one in flight
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Run consumes jobs in arrival order until ctx is done. A job in flight is not interrupted
// by Run itself; it sees ctx like any other board call
func (q *Queue) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		j, ok := q.take()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-q.wake:
				continue
			}
		}
		err := q.runOne(ctx, j)
		if q.OnDone != nil {
			q.OnDone(j, err)
		}
		q.finish()
	}
}

// Drain blocks until the queue is empty and nothing is in flight
func (q *Queue) Drain(ctx context.Context) error {
	q.mu.Lock()
	if len(q.jobs) == 0 && !q.busy {
		q.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.idle = append(q.idle, ch)
	q.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) take() (domain.Job, bool) {
	q.mu.Lock()
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		return domain.Job{}, false
	}
	j := q.jobs[0]
	q.jobs[0] = domain.Job{}
	q.jobs = q.jobs[1:]
	q.busy = true
	n := len(q.jobs)
	q.mu.Unlock()

	q.depth(n)
	return j, true
}

func (q *Queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.busy = false
	if len(q.jobs) > 0 {
		return
	}
	for _, ch := range q.idle {
		close(ch)
	}
	q.idle = nil
}

func (q *Queue) runOne(ctx context.Context, j domain.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = perr.PanicErrf("job panicked: %v", r)
		}
		if err != nil {
			q.log.Warn().Err(err).
				Str("job_id", j.ID).
				Str("kind", j.Kind.String()).
				Str("post_id", j.Post.ID).
				Msg("job failed")
		}
	}()
	return q.exec(ctx, j)
}

func (q *Queue) depth(n int) {
	if q.OnDepth != nil {
		q.OnDepth(n)
	}
}
