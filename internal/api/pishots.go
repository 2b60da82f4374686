package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"petwatch/internal/store"
)

// PiShotsHandler ingests sightings from the camera classification
// pipeline and resolves them against tickets.
type PiShotsHandler struct {
	DB *sql.DB
}

type createPiShotRequest struct {
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
	MLLabel     string `json:"ml_label"`
	MLLabelIdx  int    `json:"ml_label_idx"`
}

// Create handles POST /api/pi/shots.
func (h *PiShotsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPiShotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MLLabel == "" {
		jsonError(w, http.StatusBadRequest, "ml_label required")
		return
	}

	shot, err := store.CreatePiShot(r.Context(), h.DB, req.Description, req.MediaURL, req.MLLabel, req.MLLabelIdx)
	if err != nil {
		slog.Error("failed to create pi shot", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create shot")
		return
	}

	slog.Info("camera shot recorded", "shot", shot.ID, "label", shot.MLLabel)
	jsonResponse(w, http.StatusCreated, shot)
}

// Get handles GET /api/pi/shots/{id}.
func (h *PiShotsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid shot id")
		return
	}

	shot, err := store.GetPiShot(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get shot")
		return
	}
	if shot == nil {
		jsonError(w, http.StatusNotFound, "shot not found")
		return
	}

	jsonResponse(w, http.StatusOK, shot)
}

// Match handles GET /api/pi/shots/{id}/match: the ticket whose shot
// identifier equals this camera shot's identifier, if any.
func (h *PiShotsHandler) Match(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid shot id")
		return
	}

	shot, err := store.GetPiShot(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get shot")
		return
	}
	if shot == nil {
		jsonError(w, http.StatusNotFound, "shot not found")
		return
	}

	ticket, err := store.GetTicketByShot(r.Context(), h.DB, shot.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to look up match")
		return
	}
	if ticket == nil {
		jsonError(w, http.StatusNotFound, "no matching ticket")
		return
	}

	jsonResponse(w, http.StatusOK, ticket)
}
