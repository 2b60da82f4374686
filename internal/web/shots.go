package web

import (
	"log/slog"
	"net/http"

	"petwatch/internal/imaging"
	"petwatch/internal/model"
	"petwatch/internal/store"
)

// ShotsPage handles GET /shots.
func (s *Server) ShotsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	shots, err := store.ListSpottedShots(r.Context(), s.DB, 50)
	if err != nil {
		slog.Error("failed to list shots", "error", err)
	}

	s.Templates.Render(w, "shots.html", &struct {
		PageData
		Shots []model.SpottedShot
	}{
		PageData: PageData{Title: "Spotted pets", User: claims},
		Shots:    shots,
	})
}

// ShotCreateSubmit handles POST /shots: records a sighting with an
// optional photo. The shot and its ticket are created together, so the
// ticket exists by the time the redirect lands.
func (s *Server) ShotCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "upload too large or invalid form", http.StatusBadRequest)
		return
	}

	description := r.FormValue("description")

	var mediaPath string
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		photo, err := imaging.Process(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mediaPath, err = s.Media.Save(header.Filename, photo.Data)
		if err != nil {
			slog.Error("failed to store sighting photo", "error", err)
			http.Error(w, "failed to store photo", http.StatusInternalServerError)
			return
		}
	}

	shot, ticket, err := store.CreateSpottedShot(r.Context(), s.DB, claims.UserID, description, mediaPath)
	if err != nil {
		slog.Error("failed to record sighting", "error", err)
		http.Error(w, "failed to record sighting", http.StatusInternalServerError)
		return
	}

	slog.Info("sighting recorded", "user", claims.Username, "shot", shot.ID, "ticket", ticket.ID)
	http.Redirect(w, r, "/shots", http.StatusSeeOther)
}
