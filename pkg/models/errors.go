package models

import "errors"

// Domain specific errors shared across handlers and services.
var (
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrTripNameEmpty      = errors.New("trip name cannot be empty")
	ErrActivityNameEmpty  = errors.New("activity name cannot be empty")
	ErrMissingCoordinates = errors.New("destination coordinates are required")
	ErrCoordinatePair     = errors.New("latitude and longitude must both be provided")
)
