// Package leaderboard maintains a best-score-per-user ranking for one
// running contest session.
package leaderboard

import (
	"container/heap"
	"sort"
	"sync"
)

// Entry is one user's best score on a leaderboard. Ordering is by Score
// only; ties are unordered.
type Entry struct {
	Score    uint32
	Username string
	UserID   int64

	index int // position in the owning heap, maintained by entryHeap
}

// Leaderboard tracks at most one Entry per user_id, keeping the entry
// with the highest score ever submitted by that user. The underlying
// container/heap is a min-heap ordered by score ascending; Rankings copies
// its entries and sorts the copy by score descending.
type Leaderboard struct {
	mu      sync.Mutex
	entries entryHeap
	byUser  map[int64]*Entry
}

// New returns an empty leaderboard.
func New() *Leaderboard {
	return &Leaderboard{byUser: make(map[int64]*Entry)}
}

// Update records entry. If a user with the same UserID already has an
// entry, it is replaced with one scoring max(existing.Score, entry.Score);
// otherwise entry is inserted. Preserves the heap invariant: at most one
// entry per UserID, each user's recorded score monotonically non-decreasing
// over the leaderboard's lifetime.
func (l *Leaderboard) Update(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.byUser[entry.UserID]; ok {
		if entry.Score > existing.Score {
			existing.Score = entry.Score
			existing.Username = entry.Username
			heap.Fix(&l.entries, existing.index)
		}
		return
	}

	stored := entry
	heap.Push(&l.entries, &stored)
	l.byUser[entry.UserID] = &stored
}

// Rankings returns a snapshot ordered by score descending (ties
// unordered), without mutating the leaderboard's internal heap.
func (l *Leaderboard) Rankings() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// entryHeap is a min-heap of *Entry ordered by Score, implementing
// container/heap.Interface. Each entry tracks its own index so Update can
// call heap.Fix directly instead of rebuilding the whole heap.
type entryHeap []*Entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*Entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
