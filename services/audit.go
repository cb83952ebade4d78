package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"resort-backend/models"
	"resort-backend/repository"
)

type actorKey struct{}

// WithActor tags ctx with the staff member (or "guest:<code>") performing the request.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return "system"
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// recordAudit writes through the caller's store so the entry shares its transaction.
func recordAudit(ctx context.Context, store repository.Store, entity string, id uint, action string, before, after any) error {
	entry := models.AuditLog{
		Entity:     entity,
		EntityID:   id,
		Action:     action,
		Actor:      ActorFromContext(ctx),
		BeforeJSON: toJSON(before),
		AfterJSON:  toJSON(after),
	}
	return storeErr("write audit log", store.CreateAuditLog(ctx, &entry))
}

type AuditService struct {
	store repository.Store
}

func NewAuditService(store repository.Store) *AuditService {
	return &AuditService{store: store}
}

func (s *AuditService) List(ctx context.Context, entity string, entityID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.store.ListAuditLogs(ctx, repository.AuditFilter{Entity: entity, EntityID: entityID, Limit: limit})
	return logs, storeErr("list audit logs", err)
}
