package service

import (
	"context"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"

	"github.com/google/uuid"
)

// Actor identifies who performed an audited action.
type Actor struct {
	ProviderID *uuid.UUID
	Kind       string
}

func ProviderActor(id uuid.UUID) Actor {
	return Actor{ProviderID: &id, Kind: entity.AuditActorProvider}
}

// ClientActor attributes a self-service action to the booking's provider account.
func ClientActor(providerID uuid.UUID) Actor {
	return Actor{ProviderID: &providerID, Kind: entity.AuditActorClient}
}

type AuditService interface {
	LogCreate(ctx context.Context, actor Actor, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, actor Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, actor Actor, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditService(auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, actor Actor, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, actor, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, actor Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, actor, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, actor Actor, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, actor Actor, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		ProviderID: actor.ProviderID,
		Actor:      actor.Kind,
		Action:     action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	return s.auditRepo.Create(ctx, auditLog)
}
