package converter

import (
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
)

func LessonTypeToResponse(lessonType *entity.LessonType) dto.LessonTypeResponse {
	return dto.LessonTypeResponse{
		ID:              lessonType.ID,
		DurationMinutes: lessonType.DurationMinutes,
		Price:           lessonType.Price,
		Currency:        lessonType.Currency,
		IsActive:        lessonType.IsActive,
	}
}

func LessonTypesToResponses(lessonTypes []entity.LessonType) []dto.LessonTypeResponse {
	responses := make([]dto.LessonTypeResponse, len(lessonTypes))
	for i := range lessonTypes {
		responses[i] = LessonTypeToResponse(&lessonTypes[i])
	}
	return responses
}

func ProviderToProfileResponse(provider *entity.Provider, lessonTypes []entity.LessonType) *dto.ProviderProfileResponse {
	return &dto.ProviderProfileResponse{
		ID:                    provider.ID,
		Name:                  provider.Name,
		Bio:                   provider.Bio,
		PhotoURL:              provider.PhotoURL,
		Timezone:              provider.Timezone,
		MinNoticeHours:        provider.MinNoticeHours,
		MaxAdvanceBookingDays: provider.MaxAdvanceBookingDays,
		LessonTypes:           LessonTypesToResponses(lessonTypes),
	}
}

func ProviderToSettingsResponse(provider *entity.Provider) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		Name:                  provider.Name,
		Bio:                   provider.Bio,
		PhotoURL:              provider.PhotoURL,
		Timezone:              provider.Timezone,
		BufferMinutes:         provider.BufferMinutes,
		MinNoticeHours:        provider.MinNoticeHours,
		MaxAdvanceBookingDays: provider.MaxAdvanceBookingDays,
		SlotStepMinutes:       provider.SlotStepMinutes,
		PostSessionMessage:    provider.PostSessionMessage,
		GoogleCalendarID:      provider.GoogleCalendarID,
		CalendarConnected:     provider.CalendarConnected(),
	}
}

func ProviderToAccountResponse(provider *entity.Provider) *dto.ProviderAccountResponse {
	return &dto.ProviderAccountResponse{
		ID:                provider.ID,
		Email:             provider.Email,
		Name:              provider.Name,
		Timezone:          provider.Timezone,
		CalendarConnected: provider.CalendarConnected(),
		CreatedAt:         provider.CreatedAt,
	}
}
