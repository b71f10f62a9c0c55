package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/poker-club/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrLedgerNotFound         = errors.New("ledger not found")
	ErrLedgerExists           = errors.New("ledger already exists")
	ErrLedgerSizeMismatch     = errors.New("ledger slot count does not match stored ledger")
)

// TournamentRepository хранит турниры вместе с их историей.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByName(ctx context.Context, name string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	AppendHistory(ctx context.Context, name string, entry models.AuditEntry) error
}

// LedgerRepository хранит по одной ведомости выбываний на турнир.
type LedgerRepository interface {
	Create(ctx context.Context, ledger *models.Ledger) error
	Get(ctx context.Context, tournamentName string) (*models.Ledger, error)
	Save(ctx context.Context, ledger *models.Ledger) error
}

// RankingRepository хранит общий рейтинг. Побеждает последний Replace.
type RankingRepository interface {
	Replace(ctx context.Context, table *models.RankingTable) error
	Get(ctx context.Context) (*models.RankingTable, error)
}

// Store объединяет репозитории одного бэкенда. Atomic выполняет fn над Store,
// изменения которого применяются целиком или не применяются вовсе.
type Store interface {
	Tournaments() TournamentRepository
	Ledgers() LedgerRepository
	Rankings() RankingRepository
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
