package handlers

import (
	"net/http"
	"strconv"

	"parkhub/internal/http/middleware"
	"parkhub/internal/service"
)

type bookRequest struct {
	LotID          int64  `json:"lot_id" validate:"required"`
	ScheduledStart string `json:"scheduled_start_time"`
	ScheduledEnd   string `json:"scheduled_end_time"`
}

// NewBookHandler returns POST /api/book.
func NewBookHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		var req bookRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		receipt, err := bookings.Book(r.Context(), service.BookSpotInput{
			UserID:         userID,
			LotID:          req.LotID,
			ScheduledStart: req.ScheduledStart,
			ScheduledEnd:   req.ScheduledEnd,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message":        "Spot booked successfully",
			"booking_id":     receipt.BookingID,
			"spot_number":    receipt.SpotNumber,
			"check_in_time":  receipt.CheckInTime,
			"estimated_cost": receipt.EstimatedCost,
		})
	}
}

// NewReleaseHandler returns PUT /api/release/{id}.
func NewReleaseHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		bookingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid booking id")
			return
		}

		receipt, err := bookings.Release(r.Context(), bookingID, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":           "Spot released successfully",
			"booking_id":        receipt.BookingID,
			"total_cost":        receipt.TotalCost,
			"duration_in_hours": receipt.DurationHours,
		})
	}
}

// NewBookingsHandler returns GET /api/bookings.
func NewBookingsHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		history, err := bookings.ListBookings(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// NewUserSummaryHandler returns GET /api/user/summary.
func NewUserSummaryHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		summary, err := bookings.Summary(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// NewExportHandler returns POST /api/export-csv. The export runs in the
// background; the response only acknowledges the request.
func NewExportHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		if err := bookings.RequestExport(r.Context(), userID); err != nil {
			writeError(w, http.StatusServiceUnavailable, "export queue unavailable")
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "CSV generation has started. You will receive an email shortly.",
		})
	}
}
