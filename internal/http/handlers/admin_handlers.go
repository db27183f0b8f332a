package handlers

import (
	"net/http"

	"parkhub/internal/service"
)

// NewAdminSummaryHandler returns GET /api/admin/summary.
func NewAdminSummaryHandler(admin *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := admin.Summary(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// NewAdminUsersHandler returns GET /api/admin/users.
func NewAdminUsersHandler(admin *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := admin.Users(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]map[string]interface{}, 0, len(users))
		for _, u := range users {
			out = append(out, map[string]interface{}{
				"id":       u.ID,
				"username": u.Username,
				"email":    u.Email,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// NewHealthHandler returns GET /health.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
