package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateCode      = errors.New("code already in use")
	ErrAlreadyAssigned    = errors.New("referee already assigned to this tournament")
	ErrAlreadyDeclared    = errors.New("availability already declared")
	ErrDeadlinePassed     = errors.New("availability deadline has passed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTournamentLocked   = errors.New("tournament does not accept this operation in its current status")
	ErrTournamentFull     = errors.New("tournament already has the maximum number of referees")
	ErrNoRecipients       = errors.New("no recipients selected")
)
