package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/poker-club/models"
	"github.com/lib/pq"
)

type postgresLedgerRepository struct {
	exec SQLExecutor
}

func (r *postgresLedgerRepository) Create(ctx context.Context, ledger *models.Ledger) error {
	query := `
		INSERT INTO ledger_slots (
			tournament_name, slot_index, rank, player, elimination_time, eliminated_by, bounty_points
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, s := range ledger.Slots {
		_, err := r.exec.ExecContext(ctx, query,
			ledger.TournamentName, i, s.Rank,
			nullString(s.Player), nullString(s.EliminationTime), nullString(s.EliminatedBy), nullInt(s.BountyPoints),
		)
		if err != nil {
			return r.handleLedgerError(err)
		}
	}
	return nil
}

func (r *postgresLedgerRepository) Get(ctx context.Context, tournamentName string) (*models.Ledger, error) {
	query := `
		SELECT rank, player, elimination_time, eliminated_by, bounty_points
		FROM ledger_slots
		WHERE tournament_name = $1
		ORDER BY slot_index`

	rows, err := r.exec.QueryContext(ctx, query, tournamentName)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for tournament %q: %w", tournamentName, err)
	}
	defer rows.Close()

	ledger := &models.Ledger{TournamentName: tournamentName}
	for rows.Next() {
		var s models.Slot
		var player, elimTime, elimBy sql.NullString
		var bounty sql.NullInt64
		if err := rows.Scan(&s.Rank, &player, &elimTime, &elimBy, &bounty); err != nil {
			return nil, fmt.Errorf("failed to scan ledger slot: %w", err)
		}
		s.Player = stringPtr(player)
		s.EliminationTime = stringPtr(elimTime)
		s.EliminatedBy = stringPtr(elimBy)
		s.BountyPoints = intPtr(bounty)
		ledger.Slots = append(ledger.Slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ledger.Slots) == 0 {
		return nil, ErrLedgerNotFound
	}
	return ledger, nil
}

// Save перезаписывает изменяемые поля всех слотов; места не меняются.
func (r *postgresLedgerRepository) Save(ctx context.Context, ledger *models.Ledger) error {
	query := `
		UPDATE ledger_slots SET
			player = $1,
			elimination_time = $2,
			eliminated_by = $3,
			bounty_points = $4
		WHERE tournament_name = $5 AND slot_index = $6`

	for i, s := range ledger.Slots {
		result, err := r.exec.ExecContext(ctx, query,
			nullString(s.Player), nullString(s.EliminationTime), nullString(s.EliminatedBy), nullInt(s.BountyPoints),
			ledger.TournamentName, i,
		)
		if err != nil {
			return r.handleLedgerError(err)
		}
		notFound := ErrLedgerNotFound
		if i > 0 {
			notFound = ErrLedgerSizeMismatch
		}
		if err := checkAffectedRows(result, notFound); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresLedgerRepository) handleLedgerError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "ledger_slots_pkey" {
				return ErrLedgerExists
			}
		case "23503":
			return ErrTournamentNotFound
		}
	}
	return err
}
