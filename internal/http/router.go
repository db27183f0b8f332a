package httpserver

import (
	"net/http"

	"parkhub/internal/http/middleware"
)

// Routes groups handlers.
type Routes struct {
	Register     http.HandlerFunc
	Login        http.HandlerFunc
	ListLots     http.HandlerFunc
	Book         http.HandlerFunc
	Release      http.HandlerFunc
	Bookings     http.HandlerFunc
	UserSummary  http.HandlerFunc
	ExportCSV    http.HandlerFunc
	CreateLot    http.HandlerFunc
	AdminLots    http.HandlerFunc
	LotDetail    http.HandlerFunc
	UpdateLot    http.HandlerFunc
	DeleteLot    http.HandlerFunc
	AdminSummary http.HandlerFunc
	AdminUsers   http.HandlerFunc
	Occupancy    http.HandlerFunc
	Health       http.HandlerFunc
}

// NewRouter registers endpoints. auth wraps authenticated routes; admin
// routes additionally require the admin role.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, h)
		}
	}
	authed := func(pattern string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, auth(h))
		}
	}
	admin := func(pattern string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, auth(middleware.AdminOnly(h)))
		}
	}

	handle("POST /api/register", routes.Register)
	handle("POST /api/login", routes.Login)
	handle("GET /health", routes.Health)
	handle("GET /api/ws", routes.Occupancy)

	authed("GET /api/lots", routes.ListLots)
	authed("POST /api/book", routes.Book)
	authed("PUT /api/release/{id}", routes.Release)
	authed("GET /api/bookings", routes.Bookings)
	authed("GET /api/user/summary", routes.UserSummary)
	authed("POST /api/export-csv", routes.ExportCSV)

	admin("POST /api/admin/lots", routes.CreateLot)
	admin("GET /api/admin/lots", routes.AdminLots)
	admin("GET /api/admin/lots/{id}", routes.LotDetail)
	admin("PUT /api/admin/lots/{id}", routes.UpdateLot)
	admin("DELETE /api/admin/lots/{id}", routes.DeleteLot)
	admin("GET /api/admin/summary", routes.AdminSummary)
	admin("GET /api/admin/users", routes.AdminUsers)

	return middleware.CORS(mux)
}
