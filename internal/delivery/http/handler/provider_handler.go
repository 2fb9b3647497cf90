package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/validator"
)

type ProviderHandler struct {
	providerUsecase usecase.ProviderUsecase
	validator       *validator.CustomValidator
}

func NewProviderHandler(providerUsecase usecase.ProviderUsecase, validator *validator.CustomValidator) *ProviderHandler {
	return &ProviderHandler{
		providerUsecase: providerUsecase,
		validator:       validator,
	}
}

// GetPublicProfile handles the public provider page
// @Summary Get provider profile
// @Tags Providers
// @Produce json
// @Param providerId path string true "Provider ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{providerId} [get]
func (h *ProviderHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerId", "provider ID")
	if !ok {
		return
	}

	profile, err := h.providerUsecase.GetPublicProfile(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err, "Failed to get provider")
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", profile)
}

func (h *ProviderHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	settings, err := h.providerUsecase.GetSettings(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err, "Failed to get settings")
		return
	}

	response.Success(w, http.StatusOK, "Settings retrieved successfully", settings)
}

func (h *ProviderHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if !h.decode(w, r, &req) {
		return
	}

	settings, err := h.providerUsecase.UpdateSettings(r.Context(), providerID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update settings")
		return
	}

	response.Success(w, http.StatusOK, "Settings updated successfully", settings)
}

func (h *ProviderHandler) GetWeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	days, err := h.providerUsecase.GetWeeklyAvailability(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err, "Failed to get weekly availability")
		return
	}

	response.Success(w, http.StatusOK, "Weekly availability retrieved successfully", days)
}

func (h *ProviderHandler) UpdateWeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	var req dto.UpdateWeeklyAvailabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	days, err := h.providerUsecase.UpdateWeeklyAvailability(r.Context(), providerID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update weekly availability")
		return
	}

	response.Success(w, http.StatusOK, "Weekly availability updated successfully", days)
}

func (h *ProviderHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	overrides, err := h.providerUsecase.ListOverrides(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err, "Failed to get date overrides")
		return
	}

	response.Success(w, http.StatusOK, "Date overrides retrieved successfully", overrides)
}

// CreateOverride upserts the override of one calendar date.
func (h *ProviderHandler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	var req dto.CreateOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}

	override, err := h.providerUsecase.CreateOverride(r.Context(), providerID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to save date override")
		return
	}

	response.Success(w, http.StatusCreated, "Date override saved successfully", override)
}

func (h *ProviderHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}
	overrideID, ok := pathUUID(w, r, "id", "override ID")
	if !ok {
		return
	}

	if err := h.providerUsecase.DeleteOverride(r.Context(), providerID, overrideID); err != nil {
		h.writeError(w, err, "Failed to delete date override")
		return
	}

	response.Success(w, http.StatusOK, "Date override deleted successfully", nil)
}

func (h *ProviderHandler) GetLessonTypes(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	lessonTypes, err := h.providerUsecase.GetLessonTypes(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err, "Failed to get lesson types")
		return
	}

	response.Success(w, http.StatusOK, "Lesson types retrieved successfully", lessonTypes)
}

func (h *ProviderHandler) UpdateLessonTypes(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	var req dto.UpdateLessonTypesRequest
	if !h.decode(w, r, &req) {
		return
	}

	lessonTypes, err := h.providerUsecase.UpdateLessonTypes(r.Context(), providerID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update lesson types")
		return
	}

	response.Success(w, http.StatusOK, "Lesson types updated successfully", lessonTypes)
}

func (h *ProviderHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

func (h *ProviderHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrProviderNotFound):
		response.NotFound(w, "Provider not found")
	case errors.Is(err, usecase.ErrOverrideNotFound):
		response.NotFound(w, "Date override not found")
	case errors.Is(err, usecase.ErrInvalidTimeWindow),
		errors.Is(err, usecase.ErrDuplicateWeekday),
		errors.Is(err, usecase.ErrInvalidOverride),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrDuplicateDuration),
		errors.Is(err, usecase.ErrNegativePrice):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
