package httpclient

import (
	"context"
	"slices"
	"sync"
)

// Task is a deferred request. It runs when the queue is executed.
type Task func(ctx context.Context) (*Response, error)

// TaskQueue holds deferred tasks in enqueue order.
//
// Single-item removal and bulk reads see the order differently:
// Dequeue pops the most recently enqueued task (LIFO), while Snapshot
// returns every task oldest first. Bulk execution uses Drain, which takes
// the snapshot and clears the queue under one lock, so tasks start in the
// order they were enqueued.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []Task
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Enqueue adds a task.
func (q *TaskQueue) Enqueue(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

// Dequeue removes and returns the most recently enqueued task.
// It returns ErrEmptyQueue when the queue is empty.
func (q *TaskQueue) Dequeue() (Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tasks)
	if n == 0 {
		return nil, ErrEmptyQueue
	}

	task := q.tasks[n-1]
	q.tasks[n-1] = nil
	q.tasks = q.tasks[:n-1]
	return task, nil
}

// Snapshot returns a copy of all tasks, oldest first, without removing them.
func (q *TaskQueue) Snapshot() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.tasks)
}

// Drain returns all tasks oldest first and empties the queue.
func (q *TaskQueue) Drain() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

// IsEmpty reports whether the queue holds no tasks.
func (q *TaskQueue) IsEmpty() bool {
	return q.Size() == 0
}

// Size returns the number of queued tasks.
func (q *TaskQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Clear removes all tasks.
func (q *TaskQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = nil
}
