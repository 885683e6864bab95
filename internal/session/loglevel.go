// file: internal/session/loglevel.go
package session

import "sync/atomic"

// logLevelHolder stores the process-wide log filter level as set by
// logging/setLevel, clamped to the build-time ceiling at construction.
type logLevelHolder struct {
	ceiling int32
	current atomic.Int32
}

func newLogLevelHolder(ceiling int) logLevelHolder {
	h := logLevelHolder{ceiling: int32(ceiling)}
	h.current.Store(int32(ceiling))
	return h
}

// Set clamps level to the minimum of (requested, build-time ceiling) and
// returns the resulting effective level.
func (h *logLevelHolder) Set(level int) int {
	if int32(level) > h.ceiling {
		level = int(h.ceiling)
	}
	h.current.Store(int32(level))
	return level
}

func (h *logLevelHolder) Get() int {
	return int(h.current.Load())
}
