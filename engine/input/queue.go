package input

import (
	"sync"

	"github.com/spaghettifunk/anima-vector/engine/containers"
	"github.com/spaghettifunk/anima-vector/engine/core"
)

const DefaultQueueSize = 256

// Queue buffers events between the platform callbacks and the game loop.
// It is safe for concurrent use.
type Queue struct {
	mutex  sync.Mutex
	events *containers.RingQueue[Event]
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: containers.NewRingQueue[Event](size)}
}

// Push appends an event. When the queue is full the event is dropped and
// containers.ErrQueueFull is returned.
func (q *Queue) Push(e Event) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if err := q.events.Enqueue(e); err != nil {
		core.LogWarn("input queue full, dropping event %T", e)
		return err
	}
	return nil
}

// Drain executes every pending event against h in arrival order and
// returns how many were dispatched. Events pushed by h while draining are
// left for the next call.
func (q *Queue) Drain(h Handler) int {
	q.mutex.Lock()
	pending := make([]Event, 0, q.events.Len())
	for !q.events.IsEmpty() {
		e, err := q.events.Dequeue()
		if err != nil {
			break
		}
		pending = append(pending, e)
	}
	q.mutex.Unlock()

	for _, e := range pending {
		e.Execute(h)
	}
	return len(pending)
}

func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.events.Len()
}
