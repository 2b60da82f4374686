package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"petwatch/internal/model"
	"petwatch/internal/store"
)

// TicketsPage handles GET /tickets with an optional ?status= filter.
func (s *Server) TicketsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		status = ""
	}

	tickets, err := store.ListTickets(r.Context(), s.DB, status)
	if err != nil {
		slog.Error("failed to list tickets", "error", err)
	}

	s.Templates.Render(w, "tickets.html", &struct {
		PageData
		Tickets []model.Ticket
		Filter  string
	}{
		PageData: PageData{Title: "Tickets", User: claims},
		Tickets:  tickets,
		Filter:   status,
	})
}

// TicketApproveSubmit handles POST /tickets/{id}/approve.
func (s *Server) TicketApproveSubmit(w http.ResponseWriter, r *http.Request) {
	s.ticketTransition(w, r, model.StatusResolved)
}

// TicketRejectSubmit handles POST /tickets/{id}/reject.
func (s *Server) TicketRejectSubmit(w http.ResponseWriter, r *http.Request) {
	s.ticketTransition(w, r, model.StatusUnresolved)
}

func (s *Server) ticketTransition(w http.ResponseWriter, r *http.Request, status string) {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	ticket, err := store.SetTicketStatus(r.Context(), s.DB, id, status)
	if err != nil {
		slog.Error("failed to update ticket", "ticket", id, "error", err)
		http.Error(w, "failed to update ticket", http.StatusInternalServerError)
		return
	}
	if ticket == nil {
		http.Error(w, "ticket not found", http.StatusNotFound)
		return
	}

	slog.Info("ticket updated", "ticket", ticket.ID, "status", ticket.Status, "by", claims.Username)
	http.Redirect(w, r, "/tickets", http.StatusSeeOther)
}
