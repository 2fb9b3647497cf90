package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"

	"github.com/sirupsen/logrus"
)

type CalendarHandler struct {
	log             *logrus.Logger
	calendarUsecase usecase.CalendarUsecase
	baseURL         string
}

func NewCalendarHandler(log *logrus.Logger, calendarUsecase usecase.CalendarUsecase, baseURL string) *CalendarHandler {
	return &CalendarHandler{
		log:             log,
		calendarUsecase: calendarUsecase,
		baseURL:         baseURL,
	}
}

// Connect returns the consent URL the provider must open to link their calendar.
func (h *CalendarHandler) Connect(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	result, err := h.calendarUsecase.Connect(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, gateway.ErrCalendarNotConfigured) {
			response.ServiceUnavailable(w, "Calendar integration is not configured")
			return
		}
		response.InternalServerError(w, "Failed to start calendar connection")
		return
	}

	response.Success(w, http.StatusOK, "Calendar authorization URL created", result)
}

// Callback is reached by the provider's browser, so it answers with a redirect
// to the admin page instead of JSON.
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := h.baseURL + "/admin/calendar?connected=1"

	if denied := q.Get("error"); denied != "" {
		target = h.baseURL + "/admin/calendar?error=" + url.QueryEscape(denied)
	} else if err := h.calendarUsecase.Callback(r.Context(), q.Get("state"), q.Get("code")); err != nil {
		h.log.Warnf("Calendar callback failed: %+v", err)
		target = h.baseURL + "/admin/calendar?error=" + url.QueryEscape(callbackReason(err))
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func callbackReason(err error) string {
	switch {
	case errors.Is(err, usecase.ErrMissingOAuthCode):
		return "missing_code"
	case errors.Is(err, usecase.ErrInvalidOAuthState):
		return "invalid_state"
	case errors.Is(err, usecase.ErrNoRefreshToken):
		return "no_refresh_token"
	default:
		return "exchange_failed"
	}
}

func (h *CalendarHandler) Status(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentProvider(w, r)
	if !ok {
		return
	}

	probe, _ := strconv.ParseBool(r.URL.Query().Get("probe"))
	status, err := h.calendarUsecase.Status(r.Context(), providerID, probe)
	if err != nil {
		if errors.Is(err, usecase.ErrProviderNotFound) {
			response.NotFound(w, "Provider not found")
			return
		}
		response.InternalServerError(w, "Failed to get calendar status")
		return
	}

	response.Success(w, http.StatusOK, "Calendar status retrieved successfully", status)
}
