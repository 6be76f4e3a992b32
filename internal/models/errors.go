package models

import "fmt"

// UnknownDatasetError reports a dataset label the registry cannot resolve.
// It is fatal to the request and surfaced as a client-facing error.
type UnknownDatasetError struct {
	Label DatasetLabel
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset %q", string(e.Label))
}

// MissingColumnError reports an internal table/registry mismatch: a resolved
// table lacks a column the dataset contract requires.
type MissingColumnError struct {
	Dataset DatasetLabel
	Column  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset %s: missing column %q", e.Dataset, e.Column)
}

// CollaboratorUnavailableError reports an external text-generation failure.
// It is always recovered locally via the deterministic template fallback and
// never reaches the caller.
type CollaboratorUnavailableError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("collaborator %s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Err }
