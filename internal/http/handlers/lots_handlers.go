package handlers

import (
	"net/http"
	"strconv"

	"parkhub/internal/service"
)

type createLotRequest struct {
	Name         string  `json:"name" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	Pincode      string  `json:"pincode" validate:"required"`
	Capacity     int     `json:"capacity" validate:"gte=0"`
	PricePerHour float64 `json:"price_per_hour" validate:"gte=0"`
}

type updateLotRequest struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	Pincode      *string  `json:"pincode"`
	Capacity     *int     `json:"capacity"`
	PricePerHour *float64 `json:"price_per_hour"`
}

func lotIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lot id")
		return 0, false
	}
	return id, true
}

// NewAvailableLotsHandler returns GET /api/lots.
func NewAvailableLotsHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lots, err := parking.AvailableLots(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lots)
	}
}

// NewCreateLotHandler returns POST /api/admin/lots.
func NewCreateLotHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLotRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		lot, err := parking.CreateLot(r.Context(), service.CreateLotInput{
			Name:         req.Name,
			Address:      req.Address,
			Pincode:      req.Pincode,
			Capacity:     req.Capacity,
			PricePerHour: req.PricePerHour,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Parking lot created",
			"lot_id":  lot.ID,
		})
	}
}

// NewAdminLotsHandler returns GET /api/admin/lots.
func NewAdminLotsHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lots, err := parking.AdminLots(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lots)
	}
}

// NewLotDetailHandler returns GET /api/admin/lots/{id}.
func NewLotDetailHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lotID, ok := lotIDFromPath(w, r)
		if !ok {
			return
		}

		detail, err := parking.LotDetail(r.Context(), lotID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// NewUpdateLotHandler returns PUT /api/admin/lots/{id}.
func NewUpdateLotHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lotID, ok := lotIDFromPath(w, r)
		if !ok {
			return
		}

		var req updateLotRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		lot, err := parking.UpdateLot(r.Context(), lotID, service.UpdateLotInput{
			Name:         req.Name,
			Address:      req.Address,
			Pincode:      req.Pincode,
			Capacity:     req.Capacity,
			PricePerHour: req.PricePerHour,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Lot updated successfully",
			"lot_id":       lot.ID,
			"new_capacity": lot.Capacity,
		})
	}
}

// NewDeleteLotHandler returns DELETE /api/admin/lots/{id}.
func NewDeleteLotHandler(parking *service.ParkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lotID, ok := lotIDFromPath(w, r)
		if !ok {
			return
		}

		if err := parking.DeleteLot(r.Context(), lotID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Lot and all its spots have been deleted",
		})
	}
}
