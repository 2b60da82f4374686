package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"petwatch/internal/model"
	"petwatch/internal/store"
)

// TicketsHandler exposes the ticket workflow: approving or rejecting
// the match behind a spotted shot.
type TicketsHandler struct {
	DB *sql.DB
}

type ticketStatusResponse struct {
	Status string `json:"status"`
}

// Approve handles POST /ticket/{id}/approve: sets the ticket resolved.
func (h *TicketsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.StatusResolved)
}

// Reject handles POST /ticket/{id}/reject: sets the ticket back to
// unresolved.
func (h *TicketsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.StatusUnresolved)
}

// transition applies a status change. Both transitions are valid from
// either state; re-applying the current status is a no-op that reports
// the same status.
func (h *TicketsHandler) transition(w http.ResponseWriter, r *http.Request, status string) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := store.SetTicketStatus(r.Context(), h.DB, id, status)
	if err != nil {
		slog.Error("failed to update ticket", "ticket", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}
	if ticket == nil {
		jsonError(w, http.StatusNotFound, "ticket not found")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("ticket updated", "ticket", ticket.ID, "status", ticket.Status, "by", claims.Username)
	jsonResponse(w, http.StatusOK, ticketStatusResponse{Status: ticket.Status})
}

// Get handles GET /ticket/{id}.
func (h *TicketsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := store.GetTicket(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get ticket")
		return
	}
	if ticket == nil {
		jsonError(w, http.StatusNotFound, "ticket not found")
		return
	}

	jsonResponse(w, http.StatusOK, ticket)
}

// List handles GET /api/tickets with an optional ?status= filter.
func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	tickets, err := store.ListTickets(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	jsonResponse(w, http.StatusOK, tickets)
}
