package game

import "errors"

var (
	// ErrAlreadyFished means the user already fished on the given date.
	// No state was changed.
	ErrAlreadyFished = errors.New("already fished today")

	// ErrRotationInProgress means a daily rotation currently holds the
	// guild's guard. Fish actions are rejected rather than queued, and a
	// second rotation trigger is a no-op.
	ErrRotationInProgress = errors.New("rotation already in progress")

	// ErrNoTrackedRole means the guild has no tracked role configured,
	// so there is no member set to scan.
	ErrNoTrackedRole = errors.New("no tracked role configured")
)
