package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/delivery/http/middleware"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Login handles provider login
// @Summary Login provider
// @Description Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		response.InternalServerError(w, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Logout handles provider logout
// @Summary Logout provider
// @Description Revoke the current access token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), providerID, tokenID); err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			response.Unauthorized(w, "Invalid token")
			return
		}
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// GetCurrentProvider handles getting the logged in provider
// @Summary Get current provider
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/auth/me [get]
func (h *AuthHandler) GetCurrentProvider(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	provider, err := h.authUsecase.GetCurrentProvider(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, usecase.ErrProviderNotFound) {
			response.NotFound(w, "Provider not found")
			return
		}
		response.InternalServerError(w, "Failed to get provider info")
		return
	}

	response.Success(w, http.StatusOK, "Provider info retrieved successfully", provider)
}
