package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/spreadsheet"
)

type RankingService interface {
	// ImportRanking нормализует таблицу и заменяет сохранённый общий рейтинг.
	ImportRanking(ctx context.Context, actor models.Actor, table models.Table) (*models.RankingTable, error)
	// PreviewRanking нормализует таблицу без сохранения.
	PreviewRanking(ctx context.Context, table models.Table) (*models.RankingTable, error)
	GetRanking(ctx context.Context) (*models.RankingTable, error)
}

type rankingService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewRankingService(store repositories.Store, logger *slog.Logger) RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &rankingService{store: store, logger: logger.With(slog.String("component", "ranking"))}
}

func (s *rankingService) ImportRanking(ctx context.Context, actor models.Actor, table models.Table) (*models.RankingTable, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ranking, err := NormalizeRanking(table)
	if err != nil {
		operationFailures.WithLabelValues("import_ranking").Inc()
		return nil, err
	}

	err = s.store.Atomic(ctx, func(tx repositories.Store) error {
		return mapRepositoryError(tx.Rankings().Replace(ctx, ranking), "replace general ranking")
	})
	if err != nil {
		operationFailures.WithLabelValues("import_ranking").Inc()
		return nil, err
	}

	rankingImports.Inc()
	s.logger.InfoContext(ctx, "general ranking imported",
		slog.Int("rows", len(ranking.Rows)),
		slog.String("actor", actor.Username),
	)
	return ranking, nil
}

func (s *rankingService) PreviewRanking(_ context.Context, table models.Table) (*models.RankingTable, error) {
	return NormalizeRanking(table)
}

func (s *rankingService) GetRanking(ctx context.Context) (*models.RankingTable, error) {
	ranking, err := s.store.Rankings().Get(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "get general ranking")
	}
	return ranking, nil
}

// NormalizeRanking выбирает канонические колонки в порядке хранения и
// применяет правила округления клуба. Лишние колонки отбрасываются.
func NormalizeRanking(table models.Table) (*models.RankingTable, error) {
	idx := make(map[string]int, len(models.RankingColumns))
	for _, col := range models.RankingColumns {
		i := spreadsheet.Column(table, col)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
		idx[col] = i
	}

	out := &models.RankingTable{Rows: make([]models.RankingRow, 0, len(table.Rows))}
	for n, row := range table.Rows {
		cell := func(col string) string {
			if i := idx[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		number := func(col string) (float64, error) {
			v, err := parseRankingNumber(cell(col))
			if err != nil {
				return 0, fmt.Errorf("%w: row %d, column %q: %q", ErrInvalidRankingValue, n+2, col, cell(col))
			}
			return v, nil
		}

		var r models.RankingRow
		r.Classement = normalizeLabel(cell(models.ColClassement))
		r.Joueurs = cell(models.ColJoueurs)

		var err error
		if r.PtsClassement, err = number(models.ColPtsClassement); err != nil {
			return nil, err
		}
		if r.BonusKills, err = number(models.ColBonusKills); err != nil {
			return nil, err
		}
		if r.TotalPts, err = number(models.ColTotalPts); err != nil {
			return nil, err
		}
		if r.Moyenne, err = number(models.ColMoyenne); err != nil {
			return nil, err
		}
		if r.NbKills, err = number(models.ColNbKills); err != nil {
			return nil, err
		}

		r.PtsClassement = roundPoints(r.PtsClassement)
		r.BonusKills = roundPoints(r.BonusKills)
		r.TotalPts = roundPoints(r.TotalPts)
		r.NbKills = roundPoints(r.NbKills)
		r.Moyenne = math.Round(r.Moyenne*100) / 100
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// parseRankingNumber принимает "5", "5.25" и французское "5,25"; пустое значение = 0.
func parseRankingNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}

// roundPoints оставляет целые значения целыми, остальные округляет до десятых.
func roundPoints(v float64) float64 {
	if v == math.Trunc(v) {
		return v
	}
	return math.Round(v*10) / 10
}

// normalizeLabel выводит числовые метки вида "1.0" как "1", текст не трогает.
func normalizeLabel(raw string) string {
	v, err := parseRankingNumber(raw)
	if err != nil || raw == "" {
		return raw
	}
	return strconv.FormatFloat(roundPoints(v), 'f', -1, 64)
}
