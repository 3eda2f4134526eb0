package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Run is the record of one invocation: what was asked, where it went and
// how it ended
type Run struct {
	ID         string
	Target     Target
	OutputDir  string
	Backend    string
	Status     RunStatus
	ExitCode   int       // backend exit code, -1 if it never ran
	Downloaded int       // final files reported by the backend
	Skipped    int       // unavailable/private items
	Errors     int       // per-item errors
	LastError  string    // last fatal error message if any
	StartedAt  time.Time // when the run started
	FinishedAt time.Time // when cleanup finished

	Cleanup CleanupReport
}

// CleanupReport lists what the sweep did
type CleanupReport struct {
	Kept    []string
	Removed []string
	Failed  map[string]string // path -> error
}

// NewRun creates a pending run
func NewRun(id string, target Target, outputDir string) *Run {
	return &Run{
		ID:        id,
		Target:    target,
		OutputDir: outputDir,
		Status:    RunStatusPending,
		ExitCode:  -1,
		StartedAt: time.Now(),
	}
}

// Finish moves the run into a terminal state
func (r *Run) Finish(status RunStatus) {
	r.Status = status
	r.FinishedAt = time.Now()
}

// Fail records a fatal error
func (r *Run) Fail(err error) {
	if err != nil {
		r.LastError = err.Error()
	}
	r.Finish(RunStatusError)
}

// Elapsed returns the run duration, up to now if still running
func (r *Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// GetElapsedString returns elapsed time formatted as hh:mm:ss, or "—" if zero
func (r *Run) GetElapsedString() string {
	secs := int(r.Elapsed().Seconds())
	if secs <= 0 {
		return "—"
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTarget returns a short label for the target
func (r *Run) GetDisplayTarget() string {
	if r.Target.Kind == "" {
		return r.Target.Reference
	}
	return strings.ToUpper(string(r.Target.Kind[:1])) + string(r.Target.Kind[1:]) + ": " + r.Target.Reference
}

// KeptNames returns base names of the kept files, for the summary
func (c CleanupReport) KeptNames() []string {
	names := make([]string, 0, len(c.Kept))
	for _, p := range c.Kept {
		names = append(names, filepath.Base(p))
	}
	return names
}

// RemovedCount returns the number of intermediate files deleted
func (c CleanupReport) RemovedCount() int {
	return len(c.Removed)
}
