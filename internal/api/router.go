package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	ticketsHandler := &TicketsHandler{DB: db}
	piShotsHandler := &PiShotsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Ticket workflow.
	mux.Handle("POST /ticket/{id}/approve", authMW(http.HandlerFunc(ticketsHandler.Approve)))
	mux.Handle("POST /ticket/{id}/reject", authMW(http.HandlerFunc(ticketsHandler.Reject)))
	mux.Handle("GET /ticket/{id}", authMW(http.HandlerFunc(ticketsHandler.Get)))
	mux.Handle("GET /api/tickets", authMW(http.HandlerFunc(ticketsHandler.List)))

	// Camera pipeline.
	mux.Handle("POST /api/pi/shots", authMW(http.HandlerFunc(piShotsHandler.Create)))
	mux.Handle("GET /api/pi/shots/{id}", authMW(http.HandlerFunc(piShotsHandler.Get)))
	mux.Handle("GET /api/pi/shots/{id}/match", authMW(http.HandlerFunc(piShotsHandler.Match)))

	return mux
}
