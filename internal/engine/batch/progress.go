package batch

import (
	"math"
	"sync"
	"time"
)

// Idle is the progress index of a runner with no active run.
const Idle = -1

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks the item in flight of a batch run.
// It is safe for concurrent reads from a UI goroutine.
type Progress struct {
	mu sync.RWMutex

	current   int
	total     int
	startTime time.Time
}

// Snapshot is a point-in-time copy of Progress.
type Snapshot struct {
	Current int
	Total   int
	Percent int
	Elapsed time.Duration
}

// NewProgress returns an idle Progress.
func NewProgress() *Progress {
	return &Progress{current: Idle}
}

// Current returns the index of the item in flight, or Idle.
func (p *Progress) Current() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Total returns the size of the active run (0 when idle).
func (p *Progress) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.total
}

// IsRunning reports whether a run is active.
func (p *Progress) IsRunning() bool {
	return p.Current() != Idle
}

// PercentComplete returns round(current/total*100), or 0 when idle.
func (p *Progress) PercentComplete() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == Idle {
		return 0
	}
	return PercentOf(p.current, p.total)
}

// ElapsedTime returns the time since the active run started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == Idle {
		return 0
	}
	return time.Since(p.startTime)
}

// EstimatedTimeRemaining extrapolates from the items already settled.
// Returns 0 while idle or before the first item settles.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current <= 0 {
		return 0
	}
	avgPerItem := time.Since(p.startTime) / time.Duration(p.current)
	return avgPerItem * time.Duration(p.total-p.current)
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Snapshot{Current: p.current, Total: p.total}
	if p.current != Idle {
		s.Percent = PercentOf(p.current, p.total)
		s.Elapsed = time.Since(p.startTime)
	}
	return s
}

func (p *Progress) begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.startTime = time.Now()
}

func (p *Progress) set(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = index
}

func (p *Progress) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = Idle
	p.total = 0
}

// PercentOf returns index/total as a whole percentage, rounded to nearest.
func PercentOf(index, total int) int {
	if total <= 0 || index < 0 {
		return 0
	}
	return int(math.Round(float64(index) / float64(total) * percentMultiplier))
}
