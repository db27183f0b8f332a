package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("repository: duplicate entry")
	// ErrLotFull indicates a lot has no available spot to claim.
	ErrLotFull = errors.New("repository: no available spot in lot")
	// ErrSpotNotOccupied indicates a release of an already available spot.
	ErrSpotNotOccupied = errors.New("repository: spot not occupied")
	// ErrCapacityConflict indicates a resize below the occupied spot count.
	ErrCapacityConflict = errors.New("repository: capacity below occupied spots")
	// ErrLotOccupied indicates a lot delete while spots are still occupied.
	ErrLotOccupied = errors.New("repository: lot has occupied spots")
)
