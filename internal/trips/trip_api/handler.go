package trip_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trip-booking/internal/logger"
	"trip-booking/internal/trips"
	tripdb "trip-booking/internal/trips/db"
	"trip-booking/internal/utils"
)

type Handler struct {
	TripService *trips.TripService
	Logger      *logger.Logger
}

func NewHandler(tripService *trips.TripService, log *logger.Logger) *Handler {
	return &Handler{TripService: tripService, Logger: log}
}

func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	h.Logger.Info("API", fmt.Sprintf("GetTrip: tripId=%s", tripID))

	trip, err := h.TripService.GetTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, tripdb.ErrTripNotFound) {
			h.writeError(w, http.StatusNotFound, "Trip not found", err)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetTrip: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Trip retrieved", trip))
}

// GetTripDates returns the availability view for all departures of a trip.
func (h *Handler) GetTripDates(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	h.Logger.Info("API", fmt.Sprintf("GetTripDates: tripId=%s", tripID))

	dates, err := h.TripService.TripDates(r.Context(), tripID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTripDates: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Trip dates retrieved", dates))
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
