// file: internal/mcptypes/state_test.go
package mcptypes

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedStateGetSetRemoveClear(t *testing.T) {
	s := NewSharedState()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("k", json.RawMessage(`"v"`))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.JSONEq(t, `"v"`, string(v))

	s.Remove("k")
	_, ok = s.Get("k")
	assert.False(t, ok)

	s.Set("a", json.RawMessage(`1`))
	s.Set("b", json.RawMessage(`2`))
	s.Clear()
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestSharedStateConcurrentWritesLinearize(t *testing.T) {
	s := NewSharedState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set("k", json.RawMessage(`1`))
			_, _ = s.Get("k")
		}(i)
	}
	wg.Wait()
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage(`1`), v)
}
