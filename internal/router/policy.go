// Package router owns the tool/resource/prompt registries, resolves
// incoming method calls against them, validates tool arguments, and invokes
// handlers.
// file: internal/router/policy.go
package router

// DuplicatePolicy governs what happens when a second registration arrives
// under a name or URI already present in a registry (§4.3, P8).
type DuplicatePolicy int

const (
	// PolicyError rejects the second registration, surfacing a failure to
	// the caller.
	PolicyError DuplicatePolicy = iota

	// PolicyWarn logs the conflict and keeps the original registration.
	PolicyWarn

	// PolicyReplace overwrites the original with the second registration.
	PolicyReplace

	// PolicyIgnore silently keeps the original registration.
	PolicyIgnore
)

func (p DuplicatePolicy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicyWarn:
		return "warn"
	case PolicyReplace:
		return "replace"
	case PolicyIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}
