package usecase

import (
	"context"
	"errors"

	"lesson-booking/internal/converter"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, providerID uuid.UUID, action string, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, providerID uuid.UUID, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, providerID uuid.UUID, action string, limit int) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindAll(ctx, entity.AuditLogFilter{
		ProviderID: providerID,
		Action:     action,
		Limit:      limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	logResponses := converter.AuditLogsToResponses(logs)

	return &dto.AuditLogListResponse{
		Logs:  logResponses,
		Total: len(logs),
	}, nil
}

// GetAuditLog only returns entries that belong to the provider.
func (u *auditLogUsecase) GetAuditLog(ctx context.Context, providerID uuid.UUID, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil || auditLog.ProviderID == nil || *auditLog.ProviderID != providerID {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
