package dto

import "lesson-booking/internal/domain/entity"

type CalendarConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

type CalendarStatusResponse struct {
	Connected   bool                   `json:"connected"`
	CalendarIDs []string               `json:"calendar_ids"`
	LastCheck   *entity.CalendarHealth `json:"last_check"`
	Probe       *entity.CalendarHealth `json:"probe,omitempty"`
}
