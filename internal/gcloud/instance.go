// Package gcloud wraps the Google Cloud CLI for instance power control and
// drives an instance to the running-and-reachable state.
package gcloud

import "strings"

// Instance identifies a compute instance within a project and zone scope.
// Immutable for the duration of a run; this tool never creates or destroys
// instances, it only references them by name.
type Instance struct {
	Name      string
	ProjectID string
	Zone      string
}

// State is the provider-reported power state of an instance, folded into
// the four values this workflow distinguishes.
type State string

const (
	StateRunning    State = "RUNNING"
	StateStopped    State = "STOPPED"
	StateTerminated State = "TERMINATED"
	// StateUnknown covers query failures and any status string the parser
	// does not recognize. Unknown is treated as startable, never as ready.
	StateUnknown State = "UNKNOWN"
)

// ParseState maps a raw describe status string into the State domain.
// Parsing happens once here at the boundary; everything downstream works
// with typed states only.
func ParseState(raw string) State {
	switch State(strings.ToUpper(strings.TrimSpace(raw))) {
	case StateRunning:
		return StateRunning
	case StateStopped:
		return StateStopped
	case StateTerminated:
		return StateTerminated
	default:
		return StateUnknown
	}
}
