package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-club/models"
)

const RankingSheet = "Classement"

// EncodeRanking writes the general ranking with the canonical headers.
func EncodeRanking(t *models.RankingTable) ([]byte, error) {
	rows := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = []any{r.Classement, r.Joueurs, r.PtsClassement, r.BonusKills, r.TotalPts, r.Moyenne, r.NbKills}
	}
	return Encode(RankingSheet, models.RankingColumns, rows)
}

// DecodeRanking reads a ranking written by EncodeRanking.
func DecodeRanking(data []byte) (*models.RankingTable, error) {
	table, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(table.Header) < len(models.RankingColumns) {
		return nil, fmt.Errorf("general ranking has %d columns, want %d", len(table.Header), len(models.RankingColumns))
	}

	out := &models.RankingTable{Rows: make([]models.RankingRow, 0, len(table.Rows))}
	for i, row := range table.Rows {
		nums := make([]float64, 5)
		for j := range nums {
			raw := strings.TrimSpace(row[j+2])
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("general ranking row %d column %q: %w", i+2, models.RankingColumns[j+2], err)
			}
			nums[j] = v
		}
		out.Rows = append(out.Rows, models.RankingRow{
			Classement:    row[0],
			Joueurs:       row[1],
			PtsClassement: nums[0],
			BonusKills:    nums[1],
			TotalPts:      nums[2],
			Moyenne:       nums[3],
			NbKills:       nums[4],
		})
	}
	return out, nil
}
