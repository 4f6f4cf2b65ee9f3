package astar

import (
	"container/heap"

	"circle-planner/geometry"
)

// queueItem is one open node in the frontier.
type queueItem struct {
	Key   geometry.Key
	F     float64
	Seq   uint64 // insertion order, breaks ties between equal F
	Index int    // Index in the heap
}

// PriorityQueue implements heap.Interface for A* algorithm. Items with equal F
// pop in the order they were pushed.
type PriorityQueue []*queueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*queueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// update changes the priority of an item already in the queue.
func (pq *PriorityQueue) update(item *queueItem, f float64) {
	item.F = f
	heap.Fix(pq, item.Index)
}
