package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateBooking handles a public booking request
// @Summary Book a lesson
// @Tags Bookings
// @Accept json
// @Produce json
// @Param providerId path string true "Provider ID"
// @Param request body dto.CreateBookingRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /providers/{providerId}/bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerId", "provider ID")
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), providerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProviderNotFound):
			response.NotFound(w, "Provider not found")
		case errors.Is(err, usecase.ErrLessonTypeNotFound):
			response.NotFound(w, "Lesson type not found")
		case errors.Is(err, usecase.ErrInvalidTimeFormat), errors.Is(err, usecase.ErrInvalidTimezone):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrSlotUnavailable):
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

// GetByToken handles the client's view of a booking through its management link
// @Summary Get a booking by management token
// @Tags Bookings
// @Produce json
// @Param token path string true "Management token"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{token} [get]
func (h *BookingHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingUsecase.GetByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		if errors.Is(err, usecase.ErrBookingNotFound) || errors.Is(err, usecase.ErrProviderNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		response.InternalServerError(w, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

// CancelByToken handles a client cancellation
// @Summary Cancel a booking by management token
// @Tags Bookings
// @Produce json
// @Param token path string true "Management token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{token}/cancel [post]
func (h *BookingHandler) CancelByToken(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingUsecase.CancelByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound), errors.Is(err, usecase.ErrProviderNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrBookingNotConfirmed), errors.Is(err, usecase.ErrCancellationTooLate):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", result)
}

// ListBookings handles the provider's booking list
// @Summary List bookings
// @Tags Admin
// @Produce json
// @Param status query string false "confirmed, cancelled or completed"
// @Param from query string false "RFC3339 or YYYY-MM-DD"
// @Param to query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /admin/bookings [get]
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := dto.BookingListQuery{
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bookings, err := h.bookingUsecase.ListBookings(r.Context(), providerID, &query)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTimeFormat) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, &response.Meta{
		Total: int64(bookings.Total),
		From:  bookings.From.Format(time.RFC3339),
		To:    bookings.To.Format(time.RFC3339),
	})
}
