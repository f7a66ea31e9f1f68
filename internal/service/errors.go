package service

import "errors"

// Common service errors
var (
	// ErrVehicleNotFound is returned when a vehicle id has no match in the working set
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrStaffNotFound is returned when a staff id has no match in the working set
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
