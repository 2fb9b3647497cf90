package dto

// Response DTOs

type DaySlotsResponse struct {
	Date     string   `json:"date"`
	Duration int      `json:"duration"`
	Timezone string   `json:"timezone"`
	Slots    []string `json:"slots"`
}

type AvailableDatesResponse struct {
	Duration int      `json:"duration"`
	Timezone string   `json:"timezone"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Dates    []string `json:"dates"`
}

// Admin DTOs

type WeeklyAvailabilityItem struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	IsActive  *bool  `json:"is_active" validate:"required"`
}

type UpdateWeeklyAvailabilityRequest struct {
	Days []WeeklyAvailabilityItem `json:"days" validate:"required,min=1,max=7,dive"`
}

type WeeklyAvailabilityResponse struct {
	ID        int    `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

type CreateOverrideRequest struct {
	Date      string  `json:"date" validate:"required,isodate"`
	IsBlocked *bool   `json:"is_blocked" validate:"required"`
	StartTime *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" validate:"omitempty,hhmm"`
	Reason    *string `json:"reason" validate:"omitempty,max=500"`
}

type OverrideResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	IsBlocked bool    `json:"is_blocked"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
}
