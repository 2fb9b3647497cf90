package converter

import (
	"lesson-booking/internal/availability"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
)

// WeeklySlotOf maps a stored weekday row to the engine's template entry.
func WeeklySlotOf(row *entity.WeeklyAvailability) *availability.WeeklySlot {
	if row == nil {
		return nil
	}
	return &availability.WeeklySlot{
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		IsActive:  row.IsActive,
	}
}

// DateOverrideOf maps a stored override to the engine's override. Missing times map to "".
func DateOverrideOf(o *entity.DateOverride) *availability.DateOverride {
	if o == nil {
		return nil
	}
	out := &availability.DateOverride{IsBlocked: o.IsBlocked}
	if o.StartTime != nil {
		out.StartTime = *o.StartTime
	}
	if o.EndTime != nil {
		out.EndTime = *o.EndTime
	}
	return out
}

// PolicyOf extracts the booking constraints of a provider.
func PolicyOf(p *entity.Provider) availability.Policy {
	return availability.Policy{
		BufferMinutes:         p.BufferMinutes,
		MinNoticeHours:        p.MinNoticeHours,
		MaxAdvanceBookingDays: p.MaxAdvanceBookingDays,
		SlotStepMinutes:       p.SlotStepMinutes,
	}
}

func BookingIntervals(bookings []entity.Booking) []availability.Interval {
	out := make([]availability.Interval, len(bookings))
	for i := range bookings {
		out[i] = availability.Interval{Start: bookings[i].StartTime, End: bookings[i].EndTime}
	}
	return out
}

func BusyIntervals(busy []entity.BusyRange) []availability.Interval {
	out := make([]availability.Interval, len(busy))
	for i := range busy {
		out[i] = availability.Interval{Start: busy[i].Start, End: busy[i].End}
	}
	return out
}

func WeeklyAvailabilityToResponses(rows []entity.WeeklyAvailability) []dto.WeeklyAvailabilityResponse {
	responses := make([]dto.WeeklyAvailabilityResponse, len(rows))
	for i, row := range rows {
		responses[i] = dto.WeeklyAvailabilityResponse{
			ID:        row.ID,
			DayOfWeek: row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			IsActive:  row.IsActive,
		}
	}
	return responses
}

func OverrideToResponse(o *entity.DateOverride) dto.OverrideResponse {
	return dto.OverrideResponse{
		ID:        o.ID.String(),
		Date:      o.Date,
		IsBlocked: o.IsBlocked,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Reason:    o.Reason,
	}
}

func OverridesToResponses(overrides []entity.DateOverride) []dto.OverrideResponse {
	responses := make([]dto.OverrideResponse, len(overrides))
	for i := range overrides {
		responses[i] = OverrideToResponse(&overrides[i])
	}
	return responses
}
