// Package model defines the data passed between the download steps: the target
// reference, produced artifacts, the run record with its counters, and the
// playlist listing used by the list command.
package model
