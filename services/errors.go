package services

import "errors"

// Sentinel errors for the proposal pipeline. Use errors.Is() to check these.
var (
	// ErrInvalidProject indicates the project snapshot failed validation.
	ErrInvalidProject = errors.New("invalid project")

	// ErrInvalidSnapshot indicates saved project data could not be decoded.
	ErrInvalidSnapshot = errors.New("invalid project snapshot")

	// ErrUnsupportedCurrency indicates a currency with no known rate.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrNonFiniteAmount indicates a computed amount is NaN or infinite and
	// cannot be written to the workbook.
	ErrNonFiniteAmount = errors.New("non-finite amount")

	// ErrWriteFile indicates the workbook could not be written to disk.
	ErrWriteFile = errors.New("write proposal file")

	// ErrItemIndex indicates a line item index outside the room's BOQ.
	ErrItemIndex = errors.New("line item index out of range")

	// ErrRoomNotFound indicates no room with the given id exists.
	ErrRoomNotFound = errors.New("room not found")
)
