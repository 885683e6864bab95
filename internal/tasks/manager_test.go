// file: internal/tasks/manager_test.go
package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
)

func TestSubmitUnknownTypeIsRejected(t *testing.T) {
	m := New(nil, false)
	_, err := m.Submit("missing", nil)
	assert.Error(t, err)
}

func TestSubmitAndDriveToCompletion(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return params, nil
	}))

	id, err := m.Submit("echo", json.RawMessage(`{"x":1}`))
	require.NoError(t, err)

	info, err := m.GetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, mcptypes.TaskPending, info.Status)

	require.NoError(t, m.Drive(id, json.RawMessage(`{"x":1}`)))

	info, err = m.GetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, mcptypes.TaskCompleted, info.Status)

	result, err := m.GetResult(id)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.JSONEq(t, `{"x":1}`, string(result.Data))
}

func TestDriveFailureSetsFailedStatus(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("boom", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, assert.AnError
	}))

	id, err := m.Submit("boom", nil)
	require.NoError(t, err)
	require.NoError(t, m.Drive(id, nil))

	info, err := m.GetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, mcptypes.TaskFailed, info.Status)
	assert.NotEmpty(t, info.Error)
}

func TestCancelTerminalTaskIsRejected(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, nil
	}))
	id, err := m.Submit("echo", nil)
	require.NoError(t, err)
	require.NoError(t, m.Drive(id, nil))

	_, err = m.Cancel(id, "")
	assert.Error(t, err)
}

func TestCancelPendingTaskSetsCancelledAndDefaultReason(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, nil
	}))
	id, err := m.Submit("echo", nil)
	require.NoError(t, err)

	info, err := m.Cancel(id, "")
	require.NoError(t, err)
	assert.Equal(t, mcptypes.TaskCancelled, info.Status)

	result, err := m.GetResult(id)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled by request", result.Error)
}

func TestStatsComputesByStatusBreakdown(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, nil
	}))
	id1, _ := m.Submit("echo", nil)
	id2, _ := m.Submit("echo", nil)
	require.NoError(t, m.Drive(id1, nil))
	_ = id2

	stats := m.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.ByStatus["Completed"])
	assert.Equal(t, 1, stats.ByStatus["Pending"])
}

func TestCleanupCompletedRetainsRecentAndActive(t *testing.T) {
	m := New(nil, false)
	require.NoError(t, m.Register("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, nil
	}))
	id, err := m.Submit("echo", nil)
	require.NoError(t, err)
	require.NoError(t, m.Drive(id, nil))

	removed := m.CleanupCompleted(time.Hour)
	assert.Equal(t, 0, removed)

	removed = m.CleanupCompleted(0)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.TotalCount())
}
