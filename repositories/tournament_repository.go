package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-club/models"
	"github.com/lib/pq"
)

type postgresTournamentRepository struct {
	exec SQLExecutor
}

// NewPostgresTournamentRepository нужен, когда требуется только реестр.
func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{exec: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	earnings, err := json.Marshal(t.Earnings)
	if err != nil {
		return fmt.Errorf("failed to encode earnings: %w", err)
	}

	query := `
		INSERT INTO tournaments (
			name, num_players, participants, bounties, stack_size, earnings, comment, date_created
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.exec.ExecContext(ctx, query,
		t.Name, t.NumPlayers, pq.Array(t.Participants), pq.Array(t.Bounties),
		t.StackSize, earnings, nullString(t.Comment), t.DateCreated,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}

	for _, entry := range t.History {
		if err := r.AppendHistory(ctx, t.Name, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresTournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	query := `
		SELECT name, num_players, participants, bounties, stack_size, earnings, comment, date_created
		FROM tournaments
		WHERE name = $1`

	t, err := scanTournament(r.exec.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	history, err := r.listHistory(ctx, name)
	if err != nil {
		return nil, err
	}
	t.History = history[name]
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `
		SELECT name, num_players, participants, bounties, stack_size, earnings, comment, date_created
		FROM tournaments
		ORDER BY date_created, name`

	rows, err := r.exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	history, err := r.listHistory(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		t.History = history[t.Name]
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) AppendHistory(ctx context.Context, name string, entry models.AuditEntry) error {
	query := `
		INSERT INTO tournament_history (id, tournament_name, occurred_at, action, details)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.exec.ExecContext(ctx, query, entry.ID, name, entry.Timestamp, entry.Action, entry.Details)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to append history for tournament %q: %w", name, err)
	}
	return nil
}

// listHistory возвращает историю, сгруппированную по турнирам; пустое имя загружает всё.
func (r *postgresTournamentRepository) listHistory(ctx context.Context, name string) (map[string][]models.AuditEntry, error) {
	query := `
		SELECT tournament_name, id, occurred_at, action, details
		FROM tournament_history
		WHERE $1 = '' OR tournament_name = $1
		ORDER BY seq`

	rows, err := r.exec.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament history: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.AuditEntry)
	for rows.Next() {
		var owner string
		var e models.AuditEntry
		if err := rows.Scan(&owner, &e.ID, &e.Timestamp, &e.Action, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		out[owner] = append(out[owner], e)
	}
	return out, rows.Err()
}

func scanTournament(row interface{ Scan(...any) error }) (*models.Tournament, error) {
	var t models.Tournament
	var earnings []byte
	var comment sql.NullString
	err := row.Scan(
		&t.Name, &t.NumPlayers, pq.Array(&t.Participants), pq.Array(&t.Bounties),
		&t.StackSize, &earnings, &comment, &t.DateCreated,
	)
	if err != nil {
		return nil, err
	}
	if len(earnings) > 0 {
		if err := json.Unmarshal(earnings, &t.Earnings); err != nil {
			return nil, fmt.Errorf("failed to decode earnings of tournament %q: %w", t.Name, err)
		}
	}
	t.Comment = stringPtr(comment)
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_pkey" {
				return ErrTournamentNameConflict
			}
		}
	}
	return err
}
