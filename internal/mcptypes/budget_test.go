// file: internal/mcptypes/budget_test.go
package mcptypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBudgetInfiniteWhenTimeoutZero(t *testing.T) {
	b := NewBudget(0)
	assert.False(t, b.Exhausted())
}

func TestBudgetExhaustsAfterDeadline(t *testing.T) {
	b := NewBudget(1)
	assert.False(t, b.Exhausted())

	b.deadline = time.Now().Add(-time.Millisecond)
	assert.True(t, b.Exhausted())
}

func TestBudgetTripForcesExhaustion(t *testing.T) {
	b := NewBudget(0)
	require := assert.New(t)
	require.False(b.Exhausted())
	b.Trip()
	require.True(b.Exhausted())
}
