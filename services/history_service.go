package services

import (
	"context"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/google/uuid"
)

type HistoryService interface {
	// Append добавляет запись в конец истории турнира через store; это может
	// быть транзакция вызывающего.
	Append(ctx context.Context, store repositories.Store, tournamentName string, action models.AuditAction, details string) (models.AuditEntry, error)
	List(ctx context.Context, tournamentName string) ([]models.AuditEntry, error)
}

type historyService struct {
	store repositories.Store
	now   func() time.Time
}

func NewHistoryService(store repositories.Store) HistoryService {
	return &historyService{store: store, now: time.Now}
}

func (s *historyService) Append(ctx context.Context, store repositories.Store, tournamentName string, action models.AuditAction, details string) (models.AuditEntry, error) {
	if store == nil {
		store = s.store
	}
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Action:    action,
		Details:   details,
	}
	if err := store.Tournaments().AppendHistory(ctx, tournamentName, entry); err != nil {
		return models.AuditEntry{}, mapRepositoryError(err, "append history")
	}
	return entry, nil
}

func (s *historyService) List(ctx context.Context, tournamentName string) ([]models.AuditEntry, error) {
	t, err := s.store.Tournaments().GetByName(ctx, tournamentName)
	if err != nil {
		return nil, mapRepositoryError(err, "load tournament history")
	}
	if t.History == nil {
		return []models.AuditEntry{}, nil
	}
	return t.History, nil
}
