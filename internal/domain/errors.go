package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("actor is not a party to this booking")
	ErrWrongRole     = errors.New("action is not allowed for this role")
	ErrInvalidStatus = errors.New("action is not valid from the current status")
	ErrTerminal      = errors.New("booking is in a terminal status")
)

var (
	ErrInvalidAttachment = errors.New("invalid payment proof attachment")
	ErrConflict          = errors.New("booking was modified concurrently")
	ErrUnavailable       = errors.New("storage is unavailable")
)

var (
	ErrRoomUnavailable = errors.New("room is not available for the requested dates")
	ErrValidation      = errors.New("validation error")
)
