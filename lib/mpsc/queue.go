// Package mpsc provides an unbounded lock-free Multi-Producer
// Single-Consumer queue. It backs the per-session notification inbox: the
// ranking fan-out pushes from its own goroutine while the session goroutine
// drains between commands.
//
// Guarantees:
//
//   - Push never blocks and is safe for any number of concurrent producers
//   - a single consumer drains via TryPop (non-blocking) or Recv (channel)
//   - items pushed by one producer are received in that producer's order;
//     no ordering is guaranteed across producers
package mpsc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node is a single element of the internal linked list.
type node[T any] struct {
	value *T
	next  atomic.Pointer[node[T]]
}

// Queue is a lock-free multi-producer single-consumer queue built on a
// linked list with atomically swapped tail pointers.
type Queue[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	closed atomic.Bool

	// lazily started channel consumer (only used by Recv)
	startOut sync.Once
	out      chan *T
	mu       sync.Mutex
	cond     *sync.Cond
}

// New creates an empty queue. The head and tail start at a shared sentinel
// node so producers never race against an empty list.
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Push appends an item to the queue. It returns false if the queue is
// closed or the value is nil, true otherwise.
//
// Thread-safety: safe for concurrent use by any number of producers.
func (q *Queue[T]) Push(value *T) bool {
	if value == nil || q.closed.Load() {
		return false
	}

	newNode := &node[T]{value: value}

	var backoff uint8
	for {
		tailNode := q.tail.Load()

		next := tailNode.next.Load()
		if next == nil {
			// tail really is last, try to append
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// the tail CAS may lose to a helping producer, which is fine
				q.tail.CompareAndSwap(tailNode, newNode)
				q.cond.Signal()
				return true
			}
		} else {
			// another producer appended but has not moved tail yet, help it
			q.tail.CompareAndSwap(tailNode, next)
		}

		// Exponential backoff under contention: spin at low retry counts,
		// yield the processor once contention is real.
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// TryPop removes and returns the oldest item without blocking. It returns
// (nil, false) when the queue is empty. Popping from an empty queue is a
// no-op.
//
// Thread-safety: must only be called from the single consumer goroutine.
func (q *Queue[T]) TryPop() (*T, bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil, false
	}

	value := next.value
	q.head.Store(next)
	next.value = nil // help the gc
	return value, true
}

// Drain removes all currently queued items in arrival order.
// Draining an empty queue returns nil.
func (q *Queue[T]) Drain() []*T {
	var items []*T
	for {
		v, ok := q.TryPop()
		if !ok {
			return items
		}
		items = append(items, v)
	}
}

// Recv returns a receive-only channel fed by a background consumer
// goroutine, for callers that want to block in a select. Recv and
// TryPop/Drain must not be mixed on the same queue.
func (q *Queue[T]) Recv() <-chan *T {
	q.startOut.Do(func() {
		q.out = make(chan *T)
		go q.consume()
	})
	return q.out
}

// consume moves items from the linked list to the output channel until the
// queue is closed and fully emptied.
func (q *Queue[T]) consume() {
	defer close(q.out)

	for {
		hasItems := false
		for {
			v, ok := q.TryPop()
			if !ok {
				break
			}
			hasItems = true
			q.out <- v
		}

		if !hasItems && q.closed.Load() {
			return
		}

		if !hasItems {
			q.mu.Lock()
			head := q.head.Load()
			if head.next.Load() == nil && !q.closed.Load() {
				q.cond.Wait()
			}
			q.mu.Unlock()
		}
	}
}

// Close closes the queue, preventing further pushes. Items already queued
// remain drainable.
func (q *Queue[T]) Close() {
	q.closed.Store(true)
	q.cond.Signal()
}

// IsClosed returns true if the queue is closed.
func (q *Queue[T]) IsClosed() bool {
	return q.closed.Load()
}

// Len walks the list and counts queued items. O(n), debugging only.
func (q *Queue[T]) Len() int {
	count := 0
	current := q.head.Load()
	for {
		next := current.next.Load()
		if next == nil {
			return count
		}
		count++
		current = next
	}
}
