package astar

import (
	"container/heap"
	"testing"

	"circle-planner/geometry"
)

func TestPriorityQueueOrder(t *testing.T) {
	pq := PriorityQueue{}
	heap.Init(&pq)

	items := []*queueItem{
		{Key: geometry.Key{Circle: 1}, F: 5, Seq: 0},
		{Key: geometry.Key{Circle: 2}, F: 3, Seq: 1},
		{Key: geometry.Key{Circle: 3}, F: 5, Seq: 2},
		{Key: geometry.Key{Circle: 4}, F: 3, Seq: 3},
		{Key: geometry.Key{Circle: 5}, F: 1, Seq: 4},
	}
	for _, item := range items {
		heap.Push(&pq, item)
	}

	want := []int{5, 2, 4, 1, 3}
	for i, circle := range want {
		got := heap.Pop(&pq).(*queueItem)
		if got.Key.Circle != circle {
			t.Errorf("pop %d = circle %d, want %d", i, got.Key.Circle, circle)
		}
		if got.Index != -1 {
			t.Errorf("popped item keeps index %d", got.Index)
		}
	}
}

func TestPriorityQueueUpdate(t *testing.T) {
	pq := PriorityQueue{}
	a := &queueItem{Key: geometry.Key{Circle: 1}, F: 10, Seq: 0}
	b := &queueItem{Key: geometry.Key{Circle: 2}, F: 20, Seq: 1}
	heap.Push(&pq, a)
	heap.Push(&pq, b)

	pq.update(b, 10)

	// Equal F after the update: the earlier insertion still wins.
	if got := heap.Pop(&pq).(*queueItem); got != a {
		t.Errorf("first pop = circle %d, want 1", got.Key.Circle)
	}

	pq.update(b, 4)
	if got := heap.Pop(&pq).(*queueItem); got != b || got.F != 4 {
		t.Errorf("second pop = %+v", got)
	}
}
