package service

import (
	"context"
	"errors"
	"testing"

	"lesson-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type memoryAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (r *memoryAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryAuditRepo) FindAll(context.Context, entity.AuditLogFilter) ([]entity.AuditLog, error) {
	return r.logs, nil
}

func (r *memoryAuditRepo) FindByID(context.Context, int64) (*entity.AuditLog, error) {
	return nil, nil
}

func TestAuditServiceWritesMetadata(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo)
	providerID := uuid.New()

	if err := svc.LogUpdate(context.Background(), ProviderActor(providerID), entity.AuditActionSettingsUpdate, "provider", providerID.String(), 0, 15); err != nil {
		t.Fatalf("log: %v", err)
	}

	if len(repo.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(repo.logs))
	}
	got := repo.logs[0]
	if got.Action != entity.AuditActionSettingsUpdate || got.Actor != entity.AuditActorProvider || *got.ProviderID != providerID {
		t.Fatalf("unexpected log %+v", got)
	}
	if got.Metadata["old_value"] != 0 || got.Metadata["new_value"] != 15 || got.Metadata["entity"] != "provider" {
		t.Fatalf("unexpected metadata %+v", got.Metadata)
	}
}

func TestAuditServiceReturnsRepositoryError(t *testing.T) {
	repo := &memoryAuditRepo{err: errors.New("db down")}
	svc := NewAuditService(repo)

	if err := svc.LogCreate(context.Background(), ClientActor(uuid.New()), entity.AuditActionBookingCreate, "booking", "x", nil); err == nil {
		t.Fatal("expected error")
	}
}
