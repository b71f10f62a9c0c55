package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-club/models"
)

// Ledger workbook layout.
const (
	LedgerSheet        = "Ledger"
	ColRank            = "Rank"
	ColPlayer          = "Player"
	ColEliminationTime = "Elimination Time"
	ColEliminatedBy    = "Eliminated By"
	ColBountyPoints    = "Bounty Points"
)

var LedgerColumns = []string{ColRank, ColPlayer, ColEliminationTime, ColEliminatedBy, ColBountyPoints}

// EncodeLedger writes one row per slot in storage order.
func EncodeLedger(l *models.Ledger) ([]byte, error) {
	rows := make([][]any, len(l.Slots))
	for i, s := range l.Slots {
		row := []any{s.Rank, deref(s.Player), deref(s.EliminationTime), deref(s.EliminatedBy), ""}
		if s.BountyPoints != nil {
			row[4] = *s.BountyPoints
		}
		rows[i] = row
	}
	return Encode(LedgerSheet, LedgerColumns, rows)
}

// DecodeLedger reads a ledger workbook. Older workbooks without the
// Bounty Points column decode with nil bounty points.
func DecodeLedger(tournamentName string, data []byte) (*models.Ledger, error) {
	table, err := Decode(data)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(LedgerColumns))
	for _, c := range LedgerColumns {
		idx[c] = Column(table, c)
	}
	for _, required := range []string{ColRank, ColPlayer} {
		if idx[required] < 0 {
			return nil, fmt.Errorf("ledger for %q has no %q column", tournamentName, required)
		}
	}

	ledger := &models.Ledger{TournamentName: tournamentName, Slots: make([]models.Slot, 0, len(table.Rows))}
	for i, row := range table.Rows {
		rank, err := strconv.Atoi(strings.TrimSpace(row[idx[ColRank]]))
		if err != nil {
			return nil, fmt.Errorf("ledger for %q: invalid rank on row %d: %w", tournamentName, i+2, err)
		}
		s := models.Slot{
			Rank:            rank,
			Player:          cell(row, idx[ColPlayer]),
			EliminationTime: cell(row, idx[ColEliminationTime]),
			EliminatedBy:    cell(row, idx[ColEliminatedBy]),
		}
		if bp := cell(row, idx[ColBountyPoints]); bp != nil {
			points, err := strconv.ParseFloat(*bp, 64)
			if err != nil {
				return nil, fmt.Errorf("ledger for %q: invalid bounty points on row %d: %w", tournamentName, i+2, err)
			}
			p := int(points)
			s.BountyPoints = &p
		}
		ledger.Slots = append(ledger.Slots, s)
	}
	return ledger, nil
}

func cell(row []string, i int) *string {
	if i < 0 || i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
