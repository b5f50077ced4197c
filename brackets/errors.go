package brackets

import "errors"

var (
	// ErrValidation covers inputs the engine refuses to build a bracket from,
	// most often too few participants. Callers should wait for more
	// registrations rather than retry.
	ErrValidation = errors.New("bracket validation failed")

	// ErrUnsupportedFormat means a tournament type was routed to a format that
	// does not implement it. Always a caller bug.
	ErrUnsupportedFormat = errors.New("unsupported tournament format")

	ErrMatchNotFound         = errors.New("match not found in bracket")
	ErrMatchNotReady         = errors.New("match does not have both players yet")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrInvalidWinner         = errors.New("winner is not a player in this match")
	ErrNotBye                = errors.New("match is not a resolvable bye")
	ErrTournamentComplete    = errors.New("tournament is already complete")

	errNoOpenSlot = errors.New("no open slot in target round")
)
