// file: internal/mcptypes/budget.go
package mcptypes

import (
	"sync/atomic"
	"time"
)

// Budget is a per-request cancellation handle carrying a deadline.
// Exhausted() is equivalent to a cancellation with kind Deadline for
// error-classification purposes (§5).
type Budget struct {
	deadline time.Time // zero value means infinite.
	tripped  atomic.Bool
}

// NewBudget returns an infinite budget when timeoutSecs is zero, otherwise a
// budget whose deadline is now + timeoutSecs.
func NewBudget(timeoutSecs int) *Budget {
	if timeoutSecs <= 0 {
		return &Budget{}
	}
	return &Budget{deadline: time.Now().Add(time.Duration(timeoutSecs) * time.Second)}
}

// Exhausted reports whether the deadline has passed or the budget was
// explicitly tripped (e.g. by a cancellation notification).
func (b *Budget) Exhausted() bool {
	if b.tripped.Load() {
		return true
	}
	if b.deadline.IsZero() {
		return false
	}
	return time.Now().After(b.deadline)
}

// Trip marks the budget exhausted regardless of its deadline, used by the
// cancellation-notification path to force the next checkpoint to observe
// cancellation.
func (b *Budget) Trip() {
	b.tripped.Store(true)
}
