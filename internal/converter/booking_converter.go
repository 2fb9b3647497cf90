package converter

import (
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to the admin BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:              booking.ID,
		LessonTypeID:    booking.LessonTypeID,
		ClientName:      booking.ClientName,
		ClientEmail:     booking.ClientEmail,
		ClientTimezone:  booking.ClientTimezone,
		StartTime:       booking.StartTime.UTC(),
		EndTime:         booking.EndTime.UTC(),
		Duration:        booking.DurationMinutes(),
		Status:          string(booking.Status),
		MeetLink:        booking.MeetLink,
		Reminder24hSent: booking.Reminder24hSent,
		Reminder1hSent:  booking.Reminder1hSent,
		PostSessionSent: booking.PostSessionSent,
		CancelledAt:     booking.CancelledAt,
		CreatedAt:       booking.CreatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

func BookingToCreatedResponse(booking *entity.Booking, emailSent bool) *dto.BookingCreatedResponse {
	return &dto.BookingCreatedResponse{
		ID:              booking.ID,
		ManagementToken: booking.ManagementToken,
		StartTime:       booking.StartTime.UTC(),
		EndTime:         booking.EndTime.UTC(),
		Duration:        booking.DurationMinutes(),
		MeetLink:        booking.MeetLink,
		EmailSent:       emailSent,
	}
}
