package bracket

import "errors"

var (
	// Validation
	ErrInvalidInput          = errors.New("invalid tournament input")
	ErrInvalidSeedCount      = errors.New("bracket requires exactly 8 seeds")
	ErrDuplicateParticipant  = errors.New("participant is seeded more than once")
	ErrInvalidMatchReference = errors.New("match reference is not part of this bracket")
	ErrParticipantMismatch   = errors.New("scored participants do not match the match occupants")

	// Business rules
	ErrTiedScore              = errors.New("tied scores are not allowed")
	ErrRoundNotComplete       = errors.New("round has matches that are not completed")
	ErrRoundAlreadyAdvanced   = errors.New("round has already been advanced")
	ErrInvalidStateTransition = errors.New("invalid tournament status transition")

	// Access
	ErrForbidden = errors.New("operation not allowed for the current caller")
	ErrNotFound  = errors.New("tournament not found")

	// Storage
	ErrStoreUnavailable = errors.New("tournament store unavailable")
	ErrVersionConflict  = errors.New("tournament was modified concurrently")
	ErrAlreadyExists    = errors.New("tournament already exists")
)
