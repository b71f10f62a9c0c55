package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/spreadsheet"
)

type CreateTournamentInput struct {
	Name         string          `json:"name"`
	NumPlayers   int             `json:"num_players"`
	Participants []string        `json:"participants"`
	Bounties     []string        `json:"bounties"`
	StackSize    int             `json:"stack_size"`
	Comment      *string         `json:"comment,omitempty"`
	Earnings     models.Earnings `json:"earnings"`
}

// Defaults заполняет необязательные поля CreateTournamentInput.
type Defaults struct {
	StackSize int
	Earnings  models.Earnings
}

type TournamentService interface {
	Create(ctx context.Context, actor models.Actor, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, name string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
}

type tournamentService struct {
	store    repositories.Store
	ledger   LedgerService
	defaults Defaults
	mu       sync.Mutex
	now      func() time.Time
	logger   *slog.Logger
}

func NewTournamentService(store repositories.Store, ledger LedgerService, defaults Defaults, logger *slog.Logger) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		store:    store,
		ledger:   ledger,
		defaults: defaults,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "registry")),
	}
}

func (s *tournamentService) Create(ctx context.Context, actor models.Actor, input CreateTournamentInput) (*models.Tournament, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	t, err := s.buildTournament(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Atomic(ctx, func(tx repositories.Store) error {
		_, err := tx.Tournaments().GetByName(ctx, t.Name)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
		case !errors.Is(err, repositories.ErrTournamentNotFound):
			return mapRepositoryError(err, "check tournament name")
		}

		if err := tx.Tournaments().Create(ctx, t); err != nil {
			return mapRepositoryError(err, "create tournament")
		}
		_, err = s.ledger.InitLedger(ctx, tx, t.Name, t.NumPlayers)
		return err
	})
	if err != nil {
		operationFailures.WithLabelValues("create_tournament").Inc()
		return nil, err
	}

	tournamentsCreated.Inc()
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament", t.Name),
		slog.Int("num_players", t.NumPlayers),
		slog.Int("bounties", len(t.Bounties)),
		slog.String("actor", actor.Username),
	)
	return s.Get(ctx, t.Name)
}

func (s *tournamentService) Get(ctx context.Context, name string) (*models.Tournament, error) {
	t, err := s.store.Tournaments().GetByName(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "get tournament")
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	list, err := s.store.Tournaments().List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "list tournaments")
	}
	if list == nil {
		list = []*models.Tournament{}
	}
	return list, nil
}

// buildTournament проверяет ввод и возвращает запись для сохранения.
// Хранилище не трогает.
func (s *tournamentService) buildTournament(input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.NumPlayers < 2 || len(input.Participants) != input.NumPlayers {
		return nil, fmt.Errorf("%w: num_players=%d, participants=%d", ErrParticipantCount, input.NumPlayers, len(input.Participants))
	}

	participants := make([]string, 0, len(input.Participants))
	seen := make(map[string]bool, len(input.Participants))
	for _, p := range input.Participants {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, ErrParticipantNameEmpty
		}
		// имя попадает в ячейку ведомости и должно читаться обратно без изменений
		if !spreadsheet.StorableText(p) {
			return nil, fmt.Errorf("%w: %.40q", ErrParticipantNameInvalid, p)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p)
		}
		seen[p] = true
		participants = append(participants, p)
	}

	bounties := make([]string, 0, len(input.Bounties))
	flagged := make(map[string]bool, len(input.Bounties))
	for _, b := range input.Bounties {
		b = strings.TrimSpace(b)
		if !seen[b] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBounty, b)
		}
		if flagged[b] {
			continue
		}
		flagged[b] = true
		bounties = append(bounties, b)
	}

	stack := input.StackSize
	if stack == 0 {
		stack = s.defaults.StackSize
	}
	if stack <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStackSize, input.StackSize)
	}

	source := input.Earnings
	if source == nil {
		source = s.defaults.Earnings
	}
	earnings := make(models.Earnings, len(source))
	for pos, amount := range source {
		if pos < 1 || pos > models.MaxPaidPositions {
			return nil, fmt.Errorf("%w: position %d outside 1..%d", ErrInvalidEarnings, pos, models.MaxPaidPositions)
		}
		if amount < 0 {
			return nil, fmt.Errorf("%w: negative amount for position %d", ErrInvalidEarnings, pos)
		}
		earnings[pos] = amount
	}

	var comment *string
	if input.Comment != nil {
		if c := strings.TrimSpace(*input.Comment); c != "" {
			comment = &c
		}
	}

	return &models.Tournament{
		Name:         name,
		NumPlayers:   input.NumPlayers,
		Participants: participants,
		Bounties:     bounties,
		StackSize:    stack,
		Earnings:     earnings,
		Comment:      comment,
		DateCreated:  s.now().UTC().Truncate(time.Second),
		History:      []models.AuditEntry{},
	}, nil
}
