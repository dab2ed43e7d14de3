package sim

import (
	"container/heap"
	"sync"
)

// A trigger is one pending dispatch. Triggers are ordered by time and then by
// the sequence number assigned when they were scheduled, so an effect
// scheduled for the same time always runs after its cause.
type trigger struct {
	time  VTimeInSec
	seq   uint64
	event *Event

	// late is set for a continuation added after event was processed.
	late func(*Event)
}

type triggerQueue struct {
	sync.Mutex
	triggers triggerHeap
}

func newTriggerQueue() *triggerQueue {
	q := &triggerQueue{}
	q.triggers = make([]*trigger, 0)
	heap.Init(&q.triggers)

	return q
}

func (q *triggerQueue) Push(t *trigger) {
	q.Lock()
	heap.Push(&q.triggers, t)
	q.Unlock()
}

func (q *triggerQueue) Pop() *trigger {
	q.Lock()
	defer q.Unlock()

	if q.triggers.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.triggers).(*trigger)
}

func (q *triggerQueue) Peek() *trigger {
	q.Lock()
	defer q.Unlock()

	if q.triggers.Len() == 0 {
		return nil
	}

	return q.triggers[0]
}

func (q *triggerQueue) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.triggers.Len()
}

type triggerHeap []*trigger

func (h triggerHeap) Len() int { return len(h) }

func (h triggerHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].seq < h[j].seq
}

func (h triggerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *triggerHeap) Push(x any) {
	*h = append(*h, x.(*trigger))
}

func (h *triggerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return t
}
