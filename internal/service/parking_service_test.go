package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/models"
	"parkhub/internal/repository"
)

type fakeLotStore struct {
	lots      map[int64]*models.ParkingLot
	nextID    int64
	updateErr error
	deleteErr error
	listCalls int
	available int
}

func newFakeLotStore() *fakeLotStore {
	return &fakeLotStore{lots: map[int64]*models.ParkingLot{}}
}

func (f *fakeLotStore) Create(ctx context.Context, lot *models.ParkingLot) error {
	f.nextID++
	lot.ID = f.nextID
	stored := *lot
	f.lots[lot.ID] = &stored
	return nil
}

func (f *fakeLotStore) FindByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	lot, ok := f.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return lot, nil
}

func (f *fakeLotStore) ListAvailable(ctx context.Context) ([]models.ParkingLot, error) {
	f.listCalls++
	var lots []models.ParkingLot
	for _, lot := range f.lots {
		lots = append(lots, *lot)
	}
	return lots, nil
}

func (f *fakeLotStore) ListOverview(ctx context.Context) ([]models.LotOverview, error) {
	return []models.LotOverview{}, nil
}

func (f *fakeLotStore) Detail(ctx context.Context, id int64) (*models.LotDetail, error) {
	lot, ok := f.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.LotDetail{LotID: lot.ID, LotName: lot.Name, Capacity: lot.Capacity}, nil
}

func (f *fakeLotStore) Update(ctx context.Context, id int64, upd repository.LotUpdate) (*models.ParkingLot, int, error) {
	if f.updateErr != nil {
		return nil, 0, f.updateErr
	}
	lot, ok := f.lots[id]
	if !ok {
		return nil, 0, repository.ErrNotFound
	}
	if upd.Name != nil {
		lot.Name = *upd.Name
	}
	if upd.PricePerHour != nil {
		lot.PricePerHour = *upd.PricePerHour
	}
	if upd.Capacity != nil {
		lot.Capacity = *upd.Capacity
	}
	return lot, f.available, nil
}

func (f *fakeLotStore) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.lots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.lots, id)
	return nil
}

func newParkingServiceForTest(store *fakeLotStore, cc Cache, notifier OccupancyNotifier) *ParkingService {
	return NewParkingService(store, cc, notifier, zap.NewNop())
}

func TestCreateLotValidation(t *testing.T) {
	svc := newParkingServiceForTest(newFakeLotStore(), nil, nil)

	cases := []struct {
		name  string
		input CreateLotInput
		want  error
	}{
		{"missing name", CreateLotInput{Address: "a", Pincode: "1", Capacity: 5}, ErrInvalidInput},
		{"missing address", CreateLotInput{Name: "n", Pincode: "1", Capacity: 5}, ErrInvalidInput},
		{"negative capacity", CreateLotInput{Name: "n", Address: "a", Pincode: "1", Capacity: -1}, ErrInvalidCapacity},
		{"negative price", CreateLotInput{Name: "n", Address: "a", Pincode: "1", Capacity: 5, PricePerHour: -2}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLot(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateLot(t *testing.T) {
	store := newFakeLotStore()
	svc := newParkingServiceForTest(store, nil, nil)

	lot, err := svc.CreateLot(context.Background(), CreateLotInput{
		Name:         "Central",
		Address:      "1 Main St",
		Pincode:      "560001",
		Capacity:     10,
		PricePerHour: 15.0,
	})
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	if lot.ID == 0 {
		t.Fatal("expected assigned lot id")
	}
	if _, ok := store.lots[lot.ID]; !ok {
		t.Fatal("lot not persisted")
	}
}

func TestUpdateLotNegativeCapacity(t *testing.T) {
	svc := newParkingServiceForTest(newFakeLotStore(), nil, nil)

	capacity := -1
	_, err := svc.UpdateLot(context.Background(), 1, UpdateLotInput{Capacity: &capacity})
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestUpdateLotCapacityConflict(t *testing.T) {
	store := newFakeLotStore()
	store.updateErr = repository.ErrCapacityConflict
	svc := newParkingServiceForTest(store, nil, nil)

	capacity := 2
	_, err := svc.UpdateLot(context.Background(), 1, UpdateLotInput{Capacity: &capacity})
	if !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("expected ErrCapacityConflict, got %v", err)
	}
}

func TestUpdateLotNotFound(t *testing.T) {
	svc := newParkingServiceForTest(newFakeLotStore(), nil, nil)

	name := "renamed"
	_, err := svc.UpdateLot(context.Background(), 42, UpdateLotInput{Name: &name})
	if !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}

func TestUpdateLotNotifiesOnCapacityChange(t *testing.T) {
	store := newFakeLotStore()
	store.lots[1] = &models.ParkingLot{ID: 1, Name: "Central", Capacity: 5}
	store.available = 7
	notifier := &fakeNotifier{}
	svc := newParkingServiceForTest(store, nil, notifier)

	capacity := 8
	if _, err := svc.UpdateLot(context.Background(), 1, UpdateLotInput{Capacity: &capacity}); err != nil {
		t.Fatalf("update lot: %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.updates) != 1 || notifier.updates[0] != 7 {
		t.Fatalf("expected one update with 7 available spots, got %v", notifier.updates)
	}
}

func TestUpdateLotWithoutCapacityDoesNotNotify(t *testing.T) {
	store := newFakeLotStore()
	store.lots[1] = &models.ParkingLot{ID: 1, Name: "Central", Capacity: 5}
	notifier := &fakeNotifier{}
	svc := newParkingServiceForTest(store, nil, notifier)

	name := "Renamed"
	if _, err := svc.UpdateLot(context.Background(), 1, UpdateLotInput{Name: &name}); err != nil {
		t.Fatalf("update lot: %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.updates) != 0 {
		t.Fatalf("expected no occupancy updates, got %v", notifier.updates)
	}
}

func TestDeleteOccupiedLot(t *testing.T) {
	store := newFakeLotStore()
	store.deleteErr = repository.ErrLotOccupied
	svc := newParkingServiceForTest(store, nil, nil)

	err := svc.DeleteLot(context.Background(), 1)
	if !errors.Is(err, ErrLotOccupied) {
		t.Fatalf("expected ErrLotOccupied, got %v", err)
	}
}

func TestDeleteLotInvalidatesCaches(t *testing.T) {
	store := newFakeLotStore()
	store.lots[1] = &models.ParkingLot{ID: 1, Name: "Central"}
	cc := newFakeCache()
	svc := newParkingServiceForTest(store, cc, nil)

	if err := svc.DeleteLot(context.Background(), 1); err != nil {
		t.Fatalf("delete lot: %v", err)
	}
	for _, key := range cache.AfterLotChange(1) {
		if !cc.wasInvalidated(key) {
			t.Fatalf("expected key %q invalidated after delete", key)
		}
	}
}

func TestLotDetailNotFound(t *testing.T) {
	svc := newParkingServiceForTest(newFakeLotStore(), nil, nil)

	_, err := svc.LotDetail(context.Background(), 42)
	if !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}

func TestAvailableLotsServedFromCache(t *testing.T) {
	store := newFakeLotStore()
	store.lots[1] = &models.ParkingLot{ID: 1, Name: "Central"}
	cc := newFakeCache()
	svc := newParkingServiceForTest(store, cc, nil)

	if _, err := svc.AvailableLots(context.Background()); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.AvailableLots(context.Background()); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected store hit once with warm cache, got %d", store.listCalls)
	}
}
