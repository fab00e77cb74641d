package settlement

import "errors"

var (
	// ErrEmptyInvestorID is returned when an investor id is missing.
	ErrEmptyInvestorID = errors.New("settlement: empty investor id")
	// ErrInvalidPeriod is returned when a period is missing a bound or
	// ends before it starts.
	ErrInvalidPeriod = errors.New("settlement: invalid period")
	// ErrSnapshotNotFound is returned when a snapshot id is unknown.
	ErrSnapshotNotFound = errors.New("settlement: snapshot not found")
	// ErrSnapshotVoided is returned when freezing a voided snapshot.
	ErrSnapshotVoided = errors.New("settlement: snapshot is voided")
)
