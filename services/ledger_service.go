package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/poker-club/livefeed"
	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	MessageLedgerUpdated = "LEDGER_UPDATED"
	MessageWinner        = "TOURNAMENT_FINISHED"
)

// LedgerNotifier получает обновления ведомости после фиксации.
type LedgerNotifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

// EliminationInput описывает одно выбывание. EliminatedBy обязателен: это
// другой участник, ещё остающийся в игре, и именно он получает баунти.
// Пустое EliminationTime означает текущее время.
type EliminationInput struct {
	Player          string `json:"player"`
	EliminationTime string `json:"elimination_time"`
	EliminatedBy    string `json:"eliminated_by"`
}

// LedgerUpdatePayload рассылается зрителям турнира.
type LedgerUpdatePayload struct {
	Tournament string         `json:"tournament"`
	Slot       models.Slot    `json:"slot"`
	Remaining  []string       `json:"remaining"`
	Ledger     *models.Ledger `json:"ledger"`
}

type LedgerService interface {
	// InitLedger создаёт пустую ведомость турнира. При store == nil операция
	// выполняется в собственной транзакции.
	InitLedger(ctx context.Context, store repositories.Store, tournamentName string, numPlayers int) (*models.Ledger, error)
	RecordElimination(ctx context.Context, actor models.Actor, tournamentName string, input EliminationInput) (*models.Slot, error)
	GetRemainingPlayers(ctx context.Context, tournamentName string) ([]string, error)
	GetLedger(ctx context.Context, tournamentName string) (*models.Ledger, error)
	GetStandings(ctx context.Context, tournamentName string) (*models.Standings, error)
}

type ledgerService struct {
	store    repositories.Store
	history  HistoryService
	notifier LedgerNotifier
	locks    *keyedMutex
	now      func() time.Time
	logger   *slog.Logger
}

func NewLedgerService(store repositories.Store, history HistoryService, notifier LedgerNotifier, logger *slog.Logger) LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerService{
		store:    store,
		history:  history,
		notifier: notifier,
		locks:    newKeyedMutex(),
		now:      time.Now,
		logger:   logger.With(slog.String("component", "ledger")),
	}
}

func (s *ledgerService) InitLedger(ctx context.Context, store repositories.Store, tournamentName string, numPlayers int) (*models.Ledger, error) {
	if numPlayers < 2 {
		return nil, fmt.Errorf("%w: a ledger needs at least 2 slots, got %d", ErrParticipantCount, numPlayers)
	}
	ledger := models.NewLedger(tournamentName, numPlayers)

	initFn := func(tx repositories.Store) error {
		if err := tx.Ledgers().Create(ctx, ledger); err != nil {
			return mapRepositoryError(err, "create ledger")
		}
		_, err := s.history.Append(ctx, tx, tournamentName, models.ActionCreated,
			fmt.Sprintf("Ledger initialized with %d slots", numPlayers))
		return err
	}

	if store != nil {
		if err := initFn(store); err != nil {
			return nil, err
		}
		return ledger, nil
	}

	unlock := s.locks.Lock(tournamentName)
	defer unlock()
	if err := s.store.Atomic(ctx, initFn); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *ledgerService) RecordElimination(ctx context.Context, actor models.Actor, tournamentName string, input EliminationInput) (*models.Slot, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	player := strings.TrimSpace(input.Player)
	eliminator := strings.TrimSpace(input.EliminatedBy)
	elimTime, err := s.normalizeTime(input.EliminationTime)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(tournamentName)
	defer unlock()

	var (
		filled    models.Slot
		winner    *models.Slot
		snapshot  *models.Ledger
		remaining []string
	)
	err = s.store.Atomic(ctx, func(tx repositories.Store) error {
		t, err := tx.Tournaments().GetByName(ctx, tournamentName)
		if err != nil {
			return mapRepositoryError(err, "load tournament")
		}
		if !t.IsParticipant(player) {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
		}

		ledger, err := tx.Ledgers().Get(ctx, tournamentName)
		if err != nil {
			return mapRepositoryError(err, "load ledger")
		}
		eliminated := ledger.Eliminated()
		if eliminated[player] {
			return fmt.Errorf("%w: %q", ErrAlreadyEliminated, player)
		}
		idx := ledger.FirstUnfilled()
		if idx < 0 {
			return ErrLedgerFull
		}
		if eliminator == player || !t.IsParticipant(eliminator) || eliminated[eliminator] {
			return fmt.Errorf("%w: %q", ErrInvalidEliminator, eliminator)
		}

		bounty := 0
		if t.HasBounty(player) {
			bounty = 1
		}
		ledger.Slots[idx].Player = strPtr(player)
		ledger.Slots[idx].EliminationTime = strPtr(elimTime)
		ledger.Slots[idx].EliminatedBy = strPtr(eliminator)
		ledger.Slots[idx].BountyPoints = intPtrOf(bounty)
		filled = ledger.Slots[idx]
		eliminated[player] = true

		remaining = remainingPlayers(t, eliminated)
		if len(remaining) == 1 {
			if last := ledger.FirstUnfilled(); last >= 0 {
				ledger.Slots[last].Player = strPtr(remaining[0])
				ledger.Slots[last].BountyPoints = intPtrOf(0)
				w := ledger.Slots[last]
				winner = &w
			}
		}

		if err := tx.Ledgers().Save(ctx, ledger); err != nil {
			return mapRepositoryError(err, "save ledger")
		}

		details := fmt.Sprintf("%s eliminated by %s at %s (rank %d)", player, eliminator, elimTime, filled.Rank)
		if _, err := s.history.Append(ctx, tx, tournamentName, models.ActionElimination, details); err != nil {
			return err
		}
		if bounty > 0 {
			details := fmt.Sprintf("%s claimed the bounty on %s (+%d)", eliminator, player, bounty)
			if _, err := s.history.Append(ctx, tx, tournamentName, models.ActionBountyClaimed, details); err != nil {
				return err
			}
		}
		if winner != nil {
			details := fmt.Sprintf("%s wins the tournament (rank %d)", *winner.Player, winner.Rank)
			if _, err := s.history.Append(ctx, tx, tournamentName, models.ActionWinnerDeclared, details); err != nil {
				return err
			}
		}
		snapshot = ledger
		return nil
	})
	if err != nil {
		operationFailures.WithLabelValues("record_elimination").Inc()
		return nil, err
	}

	eliminationsRecorded.Inc()
	if filled.BountyPoints != nil && *filled.BountyPoints > 0 {
		bountiesClaimed.Add(float64(*filled.BountyPoints))
	}
	s.logger.InfoContext(ctx, "elimination recorded",
		slog.String("tournament", tournamentName),
		slog.String("player", player),
		slog.String("eliminated_by", eliminator),
		slog.Int("rank", filled.Rank),
		slog.String("actor", actor.Username),
	)
	s.broadcast(tournamentName, MessageLedgerUpdated, LedgerUpdatePayload{
		Tournament: tournamentName, Slot: filled, Remaining: remaining, Ledger: snapshot,
	})
	if winner != nil {
		s.logger.InfoContext(ctx, "tournament finished", slog.String("tournament", tournamentName), slog.String("winner", *winner.Player))
		s.broadcast(tournamentName, MessageWinner, LedgerUpdatePayload{
			Tournament: tournamentName, Slot: *winner, Remaining: remaining, Ledger: snapshot,
		})
	}
	return &filled, nil
}

func (s *ledgerService) GetRemainingPlayers(ctx context.Context, tournamentName string) ([]string, error) {
	t, ledger, err := s.load(ctx, tournamentName)
	if err != nil {
		return nil, err
	}
	return remainingPlayers(t, ledger.Eliminated()), nil
}

func (s *ledgerService) GetLedger(ctx context.Context, tournamentName string) (*models.Ledger, error) {
	t, ledger, err := s.load(ctx, tournamentName)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return models.NewLedger(t.Name, t.NumPlayers), nil
	}
	return ledger, nil
}

func (s *ledgerService) GetStandings(ctx context.Context, tournamentName string) (*models.Standings, error) {
	t, ledger, err := s.load(ctx, tournamentName)
	if err != nil {
		return nil, err
	}

	eliminated := ledger.Eliminated()
	standings := &models.Standings{
		Tournament: t.Name,
		PrizePool:  t.Earnings.Total(),
		Remaining:  remainingPlayers(t, eliminated),
		Players:    make([]models.PlayerStanding, 0, len(t.Participants)),
		Finished:   ledger != nil && ledger.FirstUnfilled() < 0,
	}

	byPlayer := make(map[string]*models.PlayerStanding, len(t.Participants))
	for _, p := range t.Participants {
		standings.Players = append(standings.Players, models.PlayerStanding{Player: p, StillPlaying: !eliminated[p]})
	}
	for i := range standings.Players {
		byPlayer[standings.Players[i].Player] = &standings.Players[i]
	}

	if ledger != nil {
		for _, slot := range ledger.Slots {
			if !slot.Filled() {
				continue
			}
			if ps, ok := byPlayer[*slot.Player]; ok {
				rank := slot.Rank
				ps.Rank = &rank
				ps.Earnings = t.Earnings.For(rank)
				ps.StillPlaying = false
			}
			if slot.EliminatedBy == nil {
				continue
			}
			if killer, ok := byPlayer[*slot.EliminatedBy]; ok {
				killer.Kills++
				if slot.BountyPoints != nil {
					killer.BountyPoints += *slot.BountyPoints
				}
			}
		}
	}

	sort.SliceStable(standings.Players, func(i, j int) bool {
		a, b := standings.Players[i], standings.Players[j]
		if a.Rank == nil || b.Rank == nil {
			return a.Rank == nil && b.Rank != nil
		}
		return *a.Rank < *b.Rank
	})
	return standings, nil
}

// load параллельно читает турнир и его ведомость. Отсутствующая ведомость
// возвращается как nil: турнир зарегистрирован, но ещё не сыгран.
func (s *ledgerService) load(ctx context.Context, tournamentName string) (*models.Tournament, *models.Ledger, error) {
	var (
		t      *models.Tournament
		ledger *models.Ledger
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.store.Tournaments().GetByName(gCtx, tournamentName)
		return mapRepositoryError(err, "load tournament")
	})
	g.Go(func() error {
		var err error
		ledger, err = s.store.Ledgers().Get(gCtx, tournamentName)
		if errors.Is(err, repositories.ErrLedgerNotFound) {
			ledger = nil
			return nil
		}
		return mapRepositoryError(err, "load ledger")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return t, ledger, nil
}

func (s *ledgerService) normalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().Format(models.EliminationTimeLayout), nil
	}
	parsed, err := time.Parse(models.EliminationTimeLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEliminationTime, raw)
	}
	return parsed.Format(models.EliminationTimeLayout), nil
}

func (s *ledgerService) broadcast(tournamentName, msgType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	room := livefeed.TournamentRoom(tournamentName)
	s.notifier.BroadcastToRoom(room, livefeed.Message{Type: msgType, Payload: payload, RoomID: room})
}

// remainingPlayers сохраняет порядок участников.
func remainingPlayers(t *models.Tournament, eliminated map[string]bool) []string {
	out := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		if !eliminated[p] {
			out = append(out, p)
		}
	}
	return out
}
