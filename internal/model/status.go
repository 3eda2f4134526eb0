package model

// RunStatus represents the state of a single invocation
type RunStatus string

const (
	// RunStatusPending means dependencies are not verified yet
	RunStatusPending RunStatus = "Pending"

	// RunStatusDownloading means the backend is running
	RunStatusDownloading RunStatus = "Downloading"

	// RunStatusCleaning means the backend returned and cleanup is in progress
	RunStatusCleaning RunStatus = "Cleaning"

	// RunStatusInterrupted means the user interrupted the backend
	RunStatusInterrupted RunStatus = "Interrupted"

	// RunStatusCompleted means the run finished, possibly with per-item failures
	RunStatusCompleted RunStatus = "Completed"

	// RunStatusError means the run could not start or hit a fatal error
	RunStatusError RunStatus = "Error"
)

// String returns the string representation of RunStatus
func (rs RunStatus) String() string {
	return string(rs)
}

// ItemStatus classifies one line of backend output
type ItemStatus string

const (
	ItemStatusProgress ItemStatus = "progress"
	ItemStatusSkipped  ItemStatus = "skipped"
	ItemStatusError    ItemStatus = "error"
	ItemStatusOther    ItemStatus = "other"
)

// String returns the string representation of ItemStatus
func (is ItemStatus) String() string {
	return string(is)
}

// IsReported returns true for lines worth echoing to the user
func (is ItemStatus) IsReported() bool {
	return is != ItemStatusOther
}
