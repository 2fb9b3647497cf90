package handler

import (
	"errors"
	"net/http"

	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

// GetDaySlots handles the bookable start times of one day
// @Summary List bookable slots for a day
// @Tags Availability
// @Produce json
// @Param providerId path string true "Provider ID"
// @Param date query string true "Day in the provider timezone (YYYY-MM-DD)"
// @Param duration query int true "Lesson duration in minutes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{providerId}/availability [get]
func (h *AvailabilityHandler) GetDaySlots(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerId", "provider ID")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date is required")
		return
	}
	duration, err := queryInt(r, "duration", 0)
	if err != nil {
		response.BadRequest(w, usecase.ErrInvalidDuration.Error())
		return
	}

	slots, err := h.availabilityUsecase.GetDaySlots(r.Context(), providerID, date, duration)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// GetAvailableDates handles the days that still have at least one slot
// @Summary List bookable dates
// @Tags Availability
// @Produce json
// @Param providerId path string true "Provider ID"
// @Param duration query int true "Lesson duration in minutes"
// @Success 200 {object} response.Response
// @Router /providers/{providerId}/availability/dates [get]
func (h *AvailabilityHandler) GetAvailableDates(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerId", "provider ID")
	if !ok {
		return
	}

	duration, err := queryInt(r, "duration", 0)
	if err != nil {
		response.BadRequest(w, usecase.ErrInvalidDuration.Error())
		return
	}

	dates, err := h.availabilityUsecase.GetAvailableDates(r.Context(), providerID, duration)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Dates retrieved successfully", dates)
}

func writeAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrProviderNotFound):
		response.NotFound(w, "Provider not found")
	case errors.Is(err, usecase.ErrInvalidDate), errors.Is(err, usecase.ErrInvalidDuration):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to compute availability")
	}
}
