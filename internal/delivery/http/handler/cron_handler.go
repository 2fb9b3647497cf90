package handler

import (
	"context"
	"net/http"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/response"
)

// CronHandler exposes the notification passes to external schedulers.
type CronHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewCronHandler(notificationUsecase usecase.NotificationUsecase) *CronHandler {
	return &CronHandler{
		notificationUsecase: notificationUsecase,
	}
}

func (h *CronHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationUsecase.Run)
}

func (h *CronHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationUsecase.RunReminders)
}

func (h *CronHandler) RunPostSession(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationUsecase.RunPostSession)
}

func (h *CronHandler) run(w http.ResponseWriter, r *http.Request, pass func(context.Context) (*entity.NotificationRunResult, error)) {
	result, err := pass(r.Context())
	if err != nil {
		response.InternalServerError(w, "Notification run failed")
		return
	}

	response.Success(w, http.StatusOK, "Notification run completed", result)
}
