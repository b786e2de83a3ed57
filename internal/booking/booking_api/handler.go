package booking_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"trip-booking/internal/auth"
	"trip-booking/internal/booking"
	"trip-booking/internal/booking/voucher"
	"trip-booking/internal/capacity"
	"trip-booking/internal/logger"
	"trip-booking/internal/models"
	"trip-booking/internal/utils"
)

type Handler struct {
	BookingService *booking.BookingService
	Voucher        *voucher.Generator
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.BookingService, voucherGen *voucher.Generator, log *logger.Logger) *Handler {
	return &Handler{
		BookingService: bookingService,
		Voucher:        voucherGen,
		Logger:         log,
	}
}

func (h *Handler) PlaceBooking(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "PlaceBooking: received request")

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceBooking: failed to decode request body: %v", err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	userID := auth.UserID(r.Context())
	created, err := h.BookingService.Create(r.Context(), userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceBooking: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Booking created", created))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("GetBooking: bookingId=%s", bookingID))

	result, err := h.BookingService.Get(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBooking: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Booking retrieved", result))
}

func (h *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("GetUserBookings: userId=%s", userID))

	bookings, err := h.BookingService.ListByUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetUserBookings: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Bookings retrieved", bookings))
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("ConfirmBooking: bookingId=%s", bookingID))

	confirmed, err := h.BookingService.Confirm(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ConfirmBooking: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Booking confirmed", confirmed))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("CancelBooking: bookingId=%s", bookingID))

	cancelled, err := h.BookingService.Cancel(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelBooking: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Booking cancelled", cancelled))
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("CompleteBooking: bookingId=%s", bookingID))

	completed, err := h.BookingService.Complete(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CompleteBooking: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Booking completed", completed))
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("RecordPayment: bookingId=%s", bookingID))

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RecordPayment: failed to decode request body: %v", err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	payment, err := h.BookingService.RecordPayment(r.Context(), bookingID, req.Amount)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("RecordPayment: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Payment recorded", payment))
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("GetPayments: bookingId=%s", bookingID))

	payments, err := h.BookingService.Payments(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPayments: %v", err))
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("Payments retrieved", payments))
}

// GetVoucher streams the booking's QR voucher as a PNG. Only confirmed
// bookings have a voucher.
func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("GetVoucher: bookingId=%s", bookingID))

	b, err := h.BookingService.Get(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVoucher: %v", err))
		h.writeServiceError(w, err)
		return
	}
	if b.Status != models.BookingConfirmed {
		h.writeError(w, http.StatusConflict, "Voucher is only available for confirmed bookings", nil)
		return
	}

	png, err := h.Voucher.GenerateQR(*b)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVoucher: failed to generate QR: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Failed to generate voucher", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidArgument):
		h.writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, capacity.ErrTripDateNotFound):
		h.writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrTripDateUnavailable),
		errors.Is(err, booking.ErrPaymentExceedsTotal),
		errors.Is(err, capacity.ErrInsufficientCapacity):
		h.writeError(w, http.StatusConflict, "Booking conflict", err)
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
