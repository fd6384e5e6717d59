package queue

import (
	"context"
	"fmt"
	"time"
)

// Queue represents a queue where tasks to grow tree
// nodes can be pushed and pulled. The idea is a worker
// will use the Pull method to obtain a task. It will
// start processing it and will then either complete it
// or drop it halfway.
//
// All its methods have a context.Context as first
// parameter that implementations may use to allow
// timeouts and cancellations on the Queue operations.
type Queue interface {
	// Push takes a task and stores it in the queue or
	// returns an error. The task will count as pending.
	Push(context.Context, *Task) error
	// Pull returns a task and a context that is done
	// once the queue is stopped, or an error. The pulled
	// task will be counted as running from then on.
	// If there are no tasks to pull, implementations
	// should not return an error, but 3 nil values.
	Pull(context.Context) (*Task, context.Context, error)
	// Drop takes the ID for a running task and makes it
	// available for pulling again, unless it has been
	// completed. Workers should use this to return to the
	// queue tasks they have not completed.
	Drop(context.Context, string) error
	// Complete takes the ID for a task. Implementations
	// should remove the task from the running state.
	Complete(context.Context, string) error
	// Count returns the number of pending and running
	// tasks in the queue, in that order, or an error.
	Count(context.Context) (int, int, error)
	// Stop stops the queue, cancelling the contexts
	// handed out by Pull.
	Stop(context.Context) error
}

/*
memQueue keeps pending tasks in a ring buffer that doubles when full and
running tasks in a map by ID. A buffered channel of capacity 1 serves as its
lock so that acquiring it can be abandoned when a context is done.
*/
type memQueue struct {
	ring    []*Task
	head    int
	pending int
	running map[string]*Task
	sem     chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// New returns a queue backed only by the process memory.
// Pulled tasks come out in the order they were pushed.
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		running: make(map[string]*Task),
		sem:     make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// pollInterval is how often WaitFor checks the queue.
var pollInterval = 10 * time.Millisecond

// WaitFor takes a context and a queue and waits for
// all its tasks to have been processed, that is, for
// the given queue's Count method to return 0, 0, nil.
// It will return a non-nil error if the given context
// times out or is cancelled, or if the queue's Count
// operation returns an error.
func WaitFor(ctx context.Context, q Queue) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		pending, running, err := q.Count(ctx)
		if err != nil {
			return err
		}
		if pending+running == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	return mq.withLock(ctx, func() error {
		mq.push(t)
		return nil
	})
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, error) {
	var task *Task
	err := mq.withLock(ctx, func() error {
		if mq.pending == 0 {
			return nil
		}
		task = mq.ring[mq.head]
		mq.ring[mq.head] = nil
		mq.head = (mq.head + 1) % len(mq.ring)
		mq.pending--
		mq.running[task.ID()] = task
		return nil
	})
	if err != nil || task == nil {
		return nil, nil, err
	}
	return task, mq.ctx, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		t, ok := mq.running[id]
		if !ok {
			return nil
		}
		delete(mq.running, id)
		mq.push(t)
		return nil
	})
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		delete(mq.running, id)
		return nil
	})
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	var pending, running int
	err := mq.withLock(ctx, func() error {
		pending, running = mq.pending, len(mq.running)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return pending, running, nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.cancel()
	return nil
}

func (mq *memQueue) String() string {
	return fmt.Sprintf("{Queue pending: %d running: %d}", mq.pending, len(mq.running))
}

func (mq *memQueue) push(t *Task) {
	if mq.pending == len(mq.ring) {
		grown := make([]*Task, 2*len(mq.ring)+1)
		for i := 0; i < mq.pending; i++ {
			grown[i] = mq.ring[(mq.head+i)%len(mq.ring)]
		}
		mq.ring, mq.head = grown, 0
	}
	mq.ring[(mq.head+mq.pending)%len(mq.ring)] = t
	mq.pending++
}

func (mq *memQueue) withLock(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case mq.sem <- struct{}{}:
	}
	defer func() { <-mq.sem }()
	return f()
}
