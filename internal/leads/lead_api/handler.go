package lead_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trip-booking/internal/leads"
	"trip-booking/internal/logger"
	"trip-booking/internal/models"
	tripdb "trip-booking/internal/trips/db"
	"trip-booking/internal/utils"
)

type Handler struct {
	LeadService *leads.LeadService
	Logger      *logger.Logger
}

func NewHandler(leadService *leads.LeadService, log *logger.Logger) *Handler {
	return &Handler{LeadService: leadService, Logger: log}
}

// SubmitLead handles the public "request a call" form. It is the only
// unauthenticated write endpoint, which is why the filter chain behind it
// is strict.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "SubmitLead: received request")

	var sub models.LeadSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitLead: failed to decode request body: %v", err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	lead, err := h.LeadService.Submit(r.Context(), sub)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitLead: %v", err))
		h.writeServiceError(w, err)
		return
	}

	// The response is identical for spam and non-spam leads so a spammer
	// cannot probe the keyword list.
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Request received, we will contact you shortly", map[string]string{
		"id": lead.ID,
	}))
}

func (h *Handler) GetTripLeads(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	includeSpam := r.URL.Query().Get("include_spam") == "true"
	h.Logger.Info("API", fmt.Sprintf("GetTripLeads: tripId=%s includeSpam=%t", tripID, includeSpam))

	tripLeads, err := h.LeadService.ListByTrip(r.Context(), tripID, includeSpam)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTripLeads: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Leads retrieved", tripLeads))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leads.ErrRateLimited):
		h.writeError(w, http.StatusTooManyRequests, "Too many requests, try again later", err)
	case errors.Is(err, leads.ErrInvalidPhoneFormat),
		errors.Is(err, leads.ErrInvalidArgument):
		h.writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, tripdb.ErrTripNotFound):
		h.writeError(w, http.StatusNotFound, "Trip not found", err)
	default:
		h.writeError(w, http.StatusInternalServerError, "Internal server error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	h.writeJSON(w, status, utils.ErrorResponse(message, detail))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}
