package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type postgresStore struct {
	db     *sql.DB
	exec   SQLExecutor
	logger *slog.Logger
}

// NewPostgresStore возвращает Store поверх схемы из db.Migrate.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresStore{db: db, exec: db, logger: logger}
}

func (s *postgresStore) Tournaments() TournamentRepository {
	return &postgresTournamentRepository{exec: s.exec}
}

func (s *postgresStore) Ledgers() LedgerRepository {
	return &postgresLedgerRepository{exec: s.exec}
}

func (s *postgresStore) Rankings() RankingRepository {
	return &postgresRankingRepository{exec: s.exec}
}

func (s *postgresStore) Atomic(ctx context.Context, fn func(tx Store) error) (txErr error) {
	if _, inTx := s.exec.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			s.logger.WarnContext(ctx, "rolling back transaction", slog.Any("error", txErr))
			if rbErr := tx.Rollback(); rbErr != nil {
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(&postgresStore{db: s.db, exec: tx, logger: s.logger})
}
