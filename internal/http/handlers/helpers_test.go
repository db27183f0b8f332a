package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parkhub/internal/service"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrInvalidSchedule, http.StatusBadRequest},
		{service.ErrInvalidCapacity, http.StatusBadRequest},
		{service.ErrLotNotFound, http.StatusNotFound},
		{service.ErrBookingNotFound, http.StatusNotFound},
		{service.ErrLotFull, http.StatusConflict},
		{service.ErrCapacityConflict, http.StatusConflict},
		{service.ErrLotOccupied, http.StatusConflict},
		{service.ErrUserExists, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("pq: connection refused"))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if strings.Contains(body["message"], "connection refused") {
		t.Fatalf("internal error leaked to client: %q", body["message"])
	}
}

func TestDecodeJSONRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "woof"},
		{"missing lot_id", `{"scheduled_start_time": ""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			var dest bookRequest
			if decodeJSON(rec, req, &dest) {
				t.Fatal("expected decode failure")
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}
