package planning

import "container/heap"

// frontier is a min-priority queue of search nodes keyed by total cost.
// Ties break FIFO on an insertion sequence number, which both makes pop
// order deterministic and gives equal-cost siblings distinct identities in
// the queue.
type frontier struct {
	entries frontierHeap
	nextSeq uint64
}

type frontierEntry struct {
	node *searchNode
	seq  uint64
}

func newFrontier() *frontier {
	return &frontier{}
}

func (f *frontier) Push(n *searchNode) {
	heap.Push(&f.entries, frontierEntry{node: n, seq: f.nextSeq})
	f.nextSeq++
}

func (f *frontier) Pop() (*searchNode, bool) {
	if len(f.entries) == 0 {
		return nil, false
	}
	entry := heap.Pop(&f.entries).(frontierEntry)
	return entry.node, true
}

func (f *frontier) Len() int {
	return len(f.entries)
}

type frontierHeap []frontierEntry

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	if h[i].node.totalCost != h[j].node.totalCost {
		return h[i].node.totalCost < h[j].node.totalCost
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x any) {
	*h = append(*h, x.(frontierEntry))
}

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
