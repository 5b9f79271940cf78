package scheduler

import (
	"time"

	"github.com/KushT00/Forex-Ultimate/internal/strategy"
)

// entry is one registered (strategy, symbols, timeframe) schedule. Owned
// exclusively by the scheduler; mutated only under the scheduler mutex.
// Entries live for the process lifetime and are never removed.
type entry struct {
	name             string
	strat            strategy.Strategy
	symbols          []string
	timeframeMinutes int
	nextExecution    time.Time
	lastDispatch     time.Time
	runs             int

	// heapIndex is maintained by the deadline heap.
	heapIndex int
}

// EntryStatus is a read-only snapshot of one schedule entry.
type EntryStatus struct {
	Name             string     `json:"name"`
	Strategy         string     `json:"strategy"`
	Symbols          []string   `json:"symbols"`
	TimeframeMinutes int        `json:"timeframe_minutes"`
	NextExecution    time.Time  `json:"next_execution"`
	LastDispatch     *time.Time `json:"last_dispatch,omitempty"`
	Runs             int        `json:"runs"`
}

func (e *entry) status() EntryStatus {
	status := EntryStatus{
		Name:             e.name,
		Strategy:         e.strat.Name(),
		Symbols:          append([]string(nil), e.symbols...),
		TimeframeMinutes: e.timeframeMinutes,
		NextExecution:    e.nextExecution,
		LastDispatch:     nil,
		Runs:             e.runs,
	}

	if !e.lastDispatch.IsZero() {
		lastDispatch := e.lastDispatch
		status.LastDispatch = &lastDispatch
	}

	return status
}

// deadlineHeap orders entries by nextExecution so the scheduling loop can
// sleep until the nearest deadline instead of polling. Ties break on name
// for deterministic dispatch order.
type deadlineHeap []*entry

func (h deadlineHeap) Len() int { return len(h) }

func (h deadlineHeap) Less(i, j int) bool {
	if h[i].nextExecution.Equal(h[j].nextExecution) {
		return h[i].name < h[j].name
	}

	return h[i].nextExecution.Before(h[j].nextExecution)
}

func (h deadlineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *deadlineHeap) Push(x any) {
	e := x.(*entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return e
}
