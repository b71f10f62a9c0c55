package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/poker-club/models"
)

type postgresRankingRepository struct {
	exec SQLExecutor
}

// Replace удаляет текущий рейтинг и вставляет table. Вызывается внутри
// Store.Atomic, поэтому наполовину записанный рейтинг никто не видит.
func (r *postgresRankingRepository) Replace(ctx context.Context, table *models.RankingTable) error {
	if _, err := r.exec.ExecContext(ctx, `DELETE FROM general_ranking`); err != nil {
		return fmt.Errorf("failed to clear general ranking: %w", err)
	}

	query := `
		INSERT INTO general_ranking (
			position, classement, joueurs, pts_classement, bonus_kills, total_pts, moyenne, nb_kills
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, row := range table.Rows {
		_, err := r.exec.ExecContext(ctx, query,
			i, row.Classement, row.Joueurs, row.PtsClassement, row.BonusKills, row.TotalPts, row.Moyenne, row.NbKills,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ranking row %d (%s): %w", i+1, row.Joueurs, err)
		}
	}
	return nil
}

func (r *postgresRankingRepository) Get(ctx context.Context) (*models.RankingTable, error) {
	query := `
		SELECT classement, joueurs, pts_classement, bonus_kills, total_pts, moyenne, nb_kills
		FROM general_ranking
		ORDER BY position`

	rows, err := r.exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query general ranking: %w", err)
	}
	defer rows.Close()

	table := &models.RankingTable{Rows: make([]models.RankingRow, 0)}
	for rows.Next() {
		var row models.RankingRow
		if err := rows.Scan(&row.Classement, &row.Joueurs, &row.PtsClassement, &row.BonusKills,
			&row.TotalPts, &row.Moyenne, &row.NbKills); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}
