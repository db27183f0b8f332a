package repository

import (
	"errors"
	"testing"

	"parkhub/internal/models"
)

func spotLedger(count int, occupied ...int) []models.ParkingSpot {
	taken := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		taken[n] = true
	}
	spots := make([]models.ParkingSpot, 0, count)
	for n := 1; n <= count; n++ {
		status := models.SpotAvailable
		if taken[n] {
			status = models.SpotOccupied
		}
		spots = append(spots, models.ParkingSpot{
			ID:         int64(100 + n),
			LotID:      1,
			SpotNumber: n,
			Status:     status,
		})
	}
	return spots
}

func TestRemovalCandidatesShrinksFromTheTop(t *testing.T) {
	ids, err := removalCandidates(spotLedger(5, 3), 2)
	if err != nil {
		t.Fatalf("removalCandidates: %v", err)
	}
	if len(ids) != 2 || ids[0] != 105 || ids[1] != 104 {
		t.Fatalf("expected spots 5 then 4, got %v", ids)
	}
}

func TestRemovalCandidatesConflictOnOccupiedSpot(t *testing.T) {
	// Removing three spots from {1..5} with spot 3 occupied would have to
	// delete spot 3; the shrink must refuse rather than renumber around it.
	if _, err := removalCandidates(spotLedger(5, 3), 3); !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("expected ErrCapacityConflict, got %v", err)
	}
}

func TestRemovalCandidatesConflictOnHighOccupiedSpot(t *testing.T) {
	if _, err := removalCandidates(spotLedger(5, 5), 1); !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("expected ErrCapacityConflict, got %v", err)
	}
}

func TestRemovalCandidatesConflictOnTooFewSpots(t *testing.T) {
	if _, err := removalCandidates(spotLedger(2), 3); !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("expected ErrCapacityConflict, got %v", err)
	}
}

func TestRemovalCandidatesZeroRemovals(t *testing.T) {
	ids, err := removalCandidates(spotLedger(5, 3), 0)
	if err != nil {
		t.Fatalf("removalCandidates: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no removals, got %v", ids)
	}
}
