package web

import (
	"log/slog"
	"net/http"

	"petwatch/internal/model"
	"petwatch/internal/store"
)

// Dashboard handles GET /dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	pets, err := store.ListLostPetsByUser(r.Context(), s.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to list pets for dashboard", "error", err)
	}
	shots, err := store.ListSpottedShots(r.Context(), s.DB, 10)
	if err != nil {
		slog.Error("failed to list shots for dashboard", "error", err)
	}
	openTickets, err := store.CountTickets(r.Context(), s.DB, model.StatusUnresolved)
	if err != nil {
		slog.Error("failed to count open tickets", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Pets        []model.LostPet
		RecentShots []model.SpottedShot
		OpenTickets int
	}{
		PageData:    PageData{Title: "Dashboard", User: claims},
		Pets:        pets,
		RecentShots: shots,
		OpenTickets: openTickets,
	})
}
