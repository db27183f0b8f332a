package service

import "errors"

var (
	// ErrInvalidInput covers malformed or missing caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSchedule covers a malformed or impossible schedule window.
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrLotNotFound indicates an unknown lot id.
	ErrLotNotFound = errors.New("lot not found")
	// ErrLotFull indicates no available spot in the requested lot.
	ErrLotFull = errors.New("no available spots in this lot")
	// ErrBookingNotFound indicates no active booking matches id and owner.
	ErrBookingNotFound = errors.New("active booking not found")
	// ErrInvalidCapacity indicates a negative capacity.
	ErrInvalidCapacity = errors.New("capacity cannot be negative")
	// ErrCapacityConflict indicates a resize below current occupancy.
	ErrCapacityConflict = errors.New("capacity below occupied spots")
	// ErrLotOccupied indicates a lot delete while bookings are active.
	ErrLotOccupied = errors.New("lot has occupied spots")
	// ErrUserExists indicates a taken username or email on registration.
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
