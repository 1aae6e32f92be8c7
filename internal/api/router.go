package api

import (
	"database/sql"
	"net/http"

	"github.com/arvindnk/campusfound/internal/lifecycle"
	"github.com/arvindnk/campusfound/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	coordinator := &lifecycle.Coordinator{DB: db}

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	claimsHandler := &ClaimsHandler{DB: db, Coordinator: coordinator}
	locationsHandler := &LocationsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}
	usersHandler := &UsersHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)
	requireAdmin := RequireRole(model.RoleAdmin)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMW(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(requireAdmin(h))
	}

	// Public: login, browsing found items and drop-off locations.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("GET /api/buildings", locationsHandler.ListBuildings)
	mux.HandleFunc("GET /api/buildings/{id}/security-points", locationsHandler.ListSecurityPoints)

	// Authenticated: reporting found items and claiming them.
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("POST /api/items/report", authed(itemsHandler.Report))
	mux.Handle("PUT /api/items/{id}/image", authed(itemsHandler.UploadImage))
	mux.Handle("POST /api/claims/request", authed(claimsHandler.Request))

	// Admin: adjudication, dashboards, user and location management.
	mux.Handle("POST /api/claims/verify", admin(claimsHandler.Verify))
	mux.Handle("PUT /api/claims/{id}/pickup-photo", admin(claimsHandler.UploadPickupPhoto))
	mux.Handle("GET /api/claims/{id}/pickup-photo", admin(claimsHandler.GetPickupPhoto))
	mux.Handle("GET /api/admin/stats", admin(adminHandler.Stats))
	mux.Handle("GET /api/admin/items", admin(adminHandler.Items))
	mux.Handle("GET /api/admin/claims", admin(adminHandler.Claims))
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))
	mux.Handle("POST /api/buildings", admin(locationsHandler.CreateBuilding))
	mux.Handle("POST /api/buildings/{id}/security-points", admin(locationsHandler.CreateSecurityPoint))

	return mux
}
