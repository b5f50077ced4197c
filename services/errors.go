package services

import "errors"

// Errors shared by the services and the HTTP error mapping. Engine errors from
// the brackets package are passed through wrapped, not translated.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant registration not found")

	ErrRegistrationConflict = errors.New("participant is already registered for this tournament")
	ErrRegistrationNotOpen  = errors.New("tournament registration is not open")

	ErrBracketAlreadyGenerated = errors.New("bracket has already been generated")
	ErrBracketNotGenerated     = errors.New("bracket has not been generated yet")

	// ErrConcurrentUpdate is returned when every write attempt lost the
	// version race to another writer.
	ErrConcurrentUpdate = errors.New("tournament was updated concurrently, retry the request")
)
