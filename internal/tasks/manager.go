// Package tasks implements the background task manager (§4.5): named task
// types submitted from request handlers, executed on a scheduler whose
// lifetime matches the server rather than the submitting request.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sony/gobreaker"

	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/mcptypes"
	"github.com/dkoosis/cowgnition-mcp/internal/rpcerr"
)

// taskState is the manager's internal record for one submitted task; the
// externally visible mcptypes.TaskInfo is derived from it on every query.
type taskState struct {
	info            mcptypes.TaskInfo
	cancelRequested bool
	result          *mcptypes.TaskResult
	cancel          context.CancelFunc
}

// Manager owns the task-type registry and the in-flight task map. AutoExecute
// controls whether Submit schedules immediately (production) or leaves the
// task Pending for a manual Drive call (testing).
type Manager struct {
	mu sync.RWMutex

	logger      logging.Logger
	autoExecute bool

	handlers map[string]mcptypes.TaskHandler
	breakers map[string]*gobreaker.CircuitBreaker[json.RawMessage]

	tasks   map[string]*taskState
	counter uint64
}

// New returns a Manager. When autoExecute is false, submitted tasks remain
// Pending until Drive is called explicitly (used by tests that need
// deterministic control over execution timing).
func New(logger logging.Logger, autoExecute bool) *Manager {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Manager{
		logger:      logger,
		autoExecute: autoExecute,
		handlers:    make(map[string]mcptypes.TaskHandler),
		breakers:    make(map[string]*gobreaker.CircuitBreaker[json.RawMessage]),
		tasks:       make(map[string]*taskState),
	}
}

// Register adds a task type's handler. Registration is append-only during
// the server's runtime phase (T3): re-registering an existing type is
// rejected.
func (m *Manager) Register(taskType string, handler mcptypes.TaskHandler) error {
	if taskType == "" {
		return rpcerr.New("task type must not be empty")
	}
	if handler == nil {
		return rpcerr.Newf("task type %q has no handler", taskType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[taskType]; exists {
		return rpcerr.Newf("task type %q is already registered", taskType)
	}
	m.handlers[taskType] = handler
	m.breakers[taskType] = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        taskType,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.logger.Warn("task type circuit breaker state change", "taskType", name, "from", from.String(), "to", to.String())
		},
	})
	return nil
}

// Submit creates a new task of taskType and, in auto-execute mode, schedules
// it on a new background goroutine.
func (m *Manager) Submit(taskType string, params json.RawMessage) (string, error) {
	m.mu.Lock()
	handler, ok := m.handlers[taskType]
	if !ok {
		m.mu.Unlock()
		return "", rpcerr.ErrorWithDetails(rpcerr.ErrInvalidArguments, rpcerr.CategoryTask, rpcerr.CodeInvalidParams,
			map[string]interface{}{"taskType": taskType})
	}
	m.counter++
	id := fmt.Sprintf("task-%08x", m.counter)

	taskCtx, cancel := context.WithCancel(context.Background())
	st := &taskState{
		info: mcptypes.TaskInfo{
			ID:        id,
			TaskType:  taskType,
			Status:    mcptypes.TaskPending,
			CreatedAt: time.Now(),
		},
		cancel: cancel,
	}
	m.tasks[id] = st
	breaker := m.breakers[taskType]
	auto := m.autoExecute
	m.mu.Unlock()

	if auto {
		go m.execute(id, taskType, handler, breaker, taskCtx, params)
	}
	return id, nil
}

// Drive runs a Pending task synchronously, for use by tests that disabled
// auto-execute.
func (m *Manager) Drive(id string, params json.RawMessage) error {
	m.mu.RLock()
	st, ok := m.tasks[id]
	m.mu.RUnlock()
	if !ok {
		return rpcerr.ErrorWithDetails(rpcerr.ErrTaskNotFound, rpcerr.CategoryTask, rpcerr.CodeTaskNotFound,
			map[string]interface{}{"id": id})
	}

	m.mu.RLock()
	handler := m.handlers[st.info.TaskType]
	breaker := m.breakers[st.info.TaskType]
	m.mu.RUnlock()

	taskCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	st.cancel = cancel
	m.mu.Unlock()

	m.execute(id, st.info.TaskType, handler, breaker, taskCtx, params)
	return nil
}

// execute runs the scheduled task per §4.5's Execution algorithm: the
// handler invocation happens with the manager's lock released, and the
// before/after transitions are each made under the write lock.
func (m *Manager) execute(id, taskType string, handler mcptypes.TaskHandler, breaker *gobreaker.CircuitBreaker[json.RawMessage], taskCtx context.Context, params json.RawMessage) {
	m.mu.Lock()
	st, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	if st.cancelRequested {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	st.info.Status = mcptypes.TaskRunning
	st.info.StartedAt = &now
	m.mu.Unlock()

	start := time.Now()
	data, err := breaker.Execute(func() (json.RawMessage, error) {
		return handler(taskCtx, params)
	})
	m.logger.Debug("task execution finished", "id", id, "taskType", taskType, "duration", humanize.RelTime(start, time.Now(), "", ""))

	m.mu.Lock()
	defer m.mu.Unlock()
	if st.cancelRequested {
		return
	}
	completedAt := time.Now()
	st.info.CompletedAt = &completedAt
	progress := 1.0
	if err != nil {
		st.info.Status = mcptypes.TaskFailed
		st.info.Error = err.Error()
		st.result = &mcptypes.TaskResult{Success: false, Error: err.Error()}
	} else {
		st.info.Status = mcptypes.TaskCompleted
		st.info.Progress = &progress
		st.result = &mcptypes.TaskResult{Success: true, Data: data}
	}
}

// UpdateProgress clamps value to [0,1] and applies it only if the task is
// currently Running.
func (m *Manager) UpdateProgress(id string, value float64, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.tasks[id]
	if !ok || st.info.Status != mcptypes.TaskRunning {
		return
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	st.info.Progress = &value
	if message != "" {
		st.info.Message = message
	}
}

// Cancel marks id cancelled, firing its task-scoped context. Terminal tasks
// are rejected with invalid-params.
func (m *Manager) Cancel(id, reason string) (mcptypes.TaskInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.tasks[id]
	if !ok {
		return mcptypes.TaskInfo{}, rpcerr.ErrorWithDetails(rpcerr.ErrTaskNotFound, rpcerr.CategoryTask, rpcerr.CodeTaskNotFound,
			map[string]interface{}{"id": id})
	}
	if st.info.Status.IsTerminal() {
		return mcptypes.TaskInfo{}, rpcerr.ErrorWithDetails(rpcerr.ErrInvalidArguments, rpcerr.CategoryTask, rpcerr.CodeInvalidParams,
			map[string]interface{}{"id": id, "reason": "task already terminal"})
	}

	if reason == "" {
		reason = "Cancelled by request"
	}
	st.cancelRequested = true
	st.info.Status = mcptypes.TaskCancelled
	now := time.Now()
	st.info.CompletedAt = &now
	st.result = &mcptypes.TaskResult{Success: false, Error: reason}
	if st.cancel != nil {
		st.cancel()
	}
	return st.info, nil
}

// GetInfo returns a task's current snapshot.
func (m *Manager) GetInfo(id string) (mcptypes.TaskInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.tasks[id]
	if !ok {
		return mcptypes.TaskInfo{}, rpcerr.ErrorWithDetails(rpcerr.ErrTaskNotFound, rpcerr.CategoryTask, rpcerr.CodeTaskNotFound,
			map[string]interface{}{"id": id})
	}
	return st.info, nil
}

// GetResult returns a terminal task's stored result.
func (m *Manager) GetResult(id string) (*mcptypes.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.tasks[id]
	if !ok {
		return nil, rpcerr.ErrorWithDetails(rpcerr.ErrTaskNotFound, rpcerr.CategoryTask, rpcerr.CodeTaskNotFound,
			map[string]interface{}{"id": id})
	}
	return st.result, nil
}

// List returns every task's info, optionally filtered by status.
func (m *Manager) List(statusFilter string) []mcptypes.TaskInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]mcptypes.TaskInfo, 0, len(m.tasks))
	for _, st := range m.tasks {
		if statusFilter != "" && string(st.info.Status) != statusFilter {
			continue
		}
		out = append(out, st.info)
	}
	return out
}

// ActiveCount returns the number of tasks not yet in a terminal status.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, st := range m.tasks {
		if !st.info.Status.IsTerminal() {
			n++
		}
	}
	return n
}

// TotalCount returns the number of tasks ever submitted.
func (m *Manager) TotalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// Stats computes the active/total/byStatus breakdown for tasks/stats.
func (m *Manager) Stats() mcptypes.TaskStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := mcptypes.TaskStats{ByStatus: make(map[string]int)}
	for _, st := range m.tasks {
		stats.Total++
		if !st.info.Status.IsTerminal() {
			stats.Active++
		}
		stats.ByStatus[string(st.info.Status)]++
	}
	return stats
}

// CleanupCompleted retains active tasks plus any terminal task younger than
// now-maxAge, discarding the rest.
func (m *Manager) CleanupCompleted(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, st := range m.tasks {
		if !st.info.Status.IsTerminal() {
			continue
		}
		if st.info.CompletedAt != nil && st.info.CompletedAt.Before(cutoff) {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}
