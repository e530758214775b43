// SPDX-License-Identifier: MPL-2.0

package updater

// Status classifies what happened to one reference.
type Status int

const (
	// StatusSkipped means the current version token is not a semantic
	// version (a branch or tag pin); nothing was attempted.
	StatusSkipped Status = iota
	// StatusUnchanged means the reference is already at its target version.
	StatusUnchanged
	// StatusUpdated means the reference was rewritten (or would be, in
	// dry-run mode) and any validation passed.
	StatusUpdated
	// StatusFailed means the reference could not be updated: malformed
	// constraint, no compatible version, or a validation failure that was
	// rolled back.
	StatusFailed
)

// String returns a short lower-case label for the status.
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusUnchanged:
		return "unchanged"
	case StatusUpdated:
		return "updated"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

type (
	// Outcome records what happened to one reference. URL and Version hold
	// the values found in the file, captured before any rewrite.
	//
	// Message carries the new version token for an update, or the failure
	// reason for a failed one; it is empty for skipped and unchanged
	// references.
	Outcome struct {
		URL     string
		Version string
		Status  Status
		Message string
	}

	// Event announces that a reference is about to be processed. Events
	// form the progress stream consumed by an external reporter; the
	// orchestrator itself never writes output.
	Event struct {
		URL   string
		Index int // zero-based position in the batch
		Total int
	}

	// ProgressFunc receives one Event per reference, in scan order.
	ProgressFunc func(Event)
)
