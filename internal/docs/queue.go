package docs

import (
	"context"
	"sync"

	slogctx "github.com/veqryn/slog-context"
)

// Task is one generation job. Errors are logged by the queue.
type Task func(ctx context.Context) error

type queueEntry struct {
	label string
	task  Task
}

// Queue runs tasks one at a time in FIFO order on a single worker
// goroutine. The worker starts on demand and exits when the queue drains.
// Deduplication is left to callers, which check Has before Add.
type Queue struct {
	ctx context.Context

	mu      sync.Mutex
	pending []queueEntry
	current string
	busy    bool
	running bool
	wg      sync.WaitGroup
}

// NewQueue returns an idle queue whose tasks run under ctx.
func NewQueue(ctx context.Context) *Queue {
	return &Queue{ctx: ctx}
}

// Add enqueues task under label and starts the worker if it is idle.
func (q *Queue) Add(label string, task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, queueEntry{label: label, task: task})
	q.wg.Add(1)
	if !q.running {
		q.running = true
		go q.work()
	}
}

// Has reports whether label is queued or running.
func (q *Queue) Has(label string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.busy && q.current == label {
		return true
	}
	for _, e := range q.pending {
		if e.label == label {
			return true
		}
	}
	return false
}

// Current returns the label of the running task.
func (q *Queue) Current() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current, q.busy
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Wait blocks until every task added so far has finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) work() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		entry := q.pending[0]
		q.pending[0] = queueEntry{}
		q.pending = q.pending[1:]
		q.current = entry.label
		q.busy = true
		q.mu.Unlock()

		q.run(entry)

		q.mu.Lock()
		q.current = ""
		q.busy = false
		q.mu.Unlock()
		q.wg.Done()
	}
}

func (q *Queue) run(entry queueEntry) {
	ctx := slogctx.Append(q.ctx, "generation", entry.label)
	defer func() {
		if rec := recover(); rec != nil {
			slogctx.Error(ctx, "Generation task panicked", "panic", rec)
		}
	}()

	slogctx.Info(ctx, "Generation task started")
	if err := entry.task(ctx); err != nil {
		slogctx.Error(ctx, "Generation task failed", "error", err)
		return
	}
	slogctx.Info(ctx, "Generation task finished")
}
