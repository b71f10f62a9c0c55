package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentService_CreateInitializesLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.create(t, "Friday", []string{"A", "B", "C"}, []string{"B"})

	assert.Equal(t, "Friday", created.Name)
	assert.Equal(t, []string{"A", "B", "C"}, created.Participants)
	assert.Equal(t, []string{"B"}, created.Bounties)
	assert.Equal(t, 20000, created.StackSize)
	assert.Equal(t, models.Earnings{1: 60, 2: 30, 3: 10}, created.Earnings)
	assert.False(t, created.DateCreated.IsZero())
	require.Len(t, created.History, 1)
	assert.Equal(t, models.ActionCreated, created.History[0].Action)
	assert.NotEmpty(t, created.History[0].ID)

	ledger, err := env.store.Ledgers().Get(ctx, "Friday")
	require.NoError(t, err)
	require.Len(t, ledger.Slots, 3)
	for i, want := range []int{3, 2, 1} {
		assert.Equal(t, want, ledger.Slots[i].Rank)
		assert.False(t, ledger.Slots[i].Filled())
	}
}

func TestTournamentService_CreateKeepsExplicitOptions(t *testing.T) {
	env := newTestEnv(t)
	comment := "  deep stack  "

	created, err := env.registry.Create(context.Background(), admin, CreateTournamentInput{
		Name:         "  Saturday ",
		NumPlayers:   2,
		Participants: []string{" Ann ", "Bob"},
		Bounties:     []string{"Bob", "Bob"},
		StackSize:    50000,
		Comment:      &comment,
		Earnings:     models.Earnings{1: 100},
	})
	require.NoError(t, err)

	assert.Equal(t, "Saturday", created.Name)
	assert.Equal(t, []string{"Ann", "Bob"}, created.Participants)
	assert.Equal(t, []string{"Bob"}, created.Bounties)
	assert.Equal(t, 50000, created.StackSize)
	assert.Equal(t, models.Earnings{1: 100}, created.Earnings)
	require.NotNil(t, created.Comment)
	assert.Equal(t, "deep stack", *created.Comment)
}

func TestTournamentService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTournamentInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateTournamentInput{Name: " ", NumPlayers: 2, Participants: []string{"A", "B"}},
			wantErr: ErrTournamentNameRequired,
		},
		{
			name:    "count mismatch",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 3, Participants: []string{"A", "B"}},
			wantErr: ErrParticipantCount,
		},
		{
			name:    "single player",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 1, Participants: []string{"A"}},
			wantErr: ErrParticipantCount,
		},
		{
			name:    "duplicate participant",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 3, Participants: []string{"A", "B", "A "}},
			wantErr: ErrDuplicateParticipant,
		},
		{
			name:    "blank participant",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", ""}},
			wantErr: ErrParticipantNameEmpty,
		},
		{
			name:    "control character in participant",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "Bob\x01"}},
			wantErr: ErrParticipantNameInvalid,
		},
		{
			name:    "participant longer than a cell",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", strings.Repeat("x", 40000)}},
			wantErr: ErrParticipantNameInvalid,
		},
		{
			name:    "participant not utf-8",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "B\xff"}},
			wantErr: ErrParticipantNameInvalid,
		},
		{
			name:    "bounty outside participants",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "B"}, Bounties: []string{"Z"}},
			wantErr: ErrInvalidBounty,
		},
		{
			name:    "negative stack",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "B"}, StackSize: -1},
			wantErr: ErrInvalidStackSize,
		},
		{
			name:    "unpaid position",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "B"}, Earnings: models.Earnings{7: 10}},
			wantErr: ErrInvalidEarnings,
		},
		{
			name:    "negative amount",
			input:   CreateTournamentInput{Name: "T", NumPlayers: 2, Participants: []string{"A", "B"}, Earnings: models.Earnings{1: -5}},
			wantErr: ErrInvalidEarnings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.registry.Create(context.Background(), admin, tt.input)
			require.ErrorIs(t, err, tt.wantErr)

			list, err := env.registry.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestTournamentService_DuplicateNameLeavesExistingUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	original := env.create(t, "Friday", []string{"A", "B", "C"}, nil)
	env.eliminate(t, "Friday", "C", "A", "20:00")
	before, err := env.store.Ledgers().Get(ctx, "Friday")
	require.NoError(t, err)

	_, err = env.registry.Create(ctx, admin, CreateTournamentInput{
		Name: "Friday", NumPlayers: 2, Participants: []string{"X", "Y"},
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	got, err := env.registry.Get(ctx, "Friday")
	require.NoError(t, err)
	assert.Equal(t, original.Participants, got.Participants)
	after, err := env.store.Ledgers().Get(ctx, "Friday")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

type failingLedger struct {
	LedgerService
}

func (failingLedger) InitLedger(context.Context, repositories.Store, string, int) (*models.Ledger, error) {
	return nil, errors.Join(ErrPersistence, errors.New("disk full"))
}

func TestTournamentService_RollsBackWhenLedgerInitFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registry := NewTournamentService(env.store, failingLedger{env.ledger}, Defaults{StackSize: 1000}, discardLogger())

	_, err := registry.Create(ctx, admin, CreateTournamentInput{
		Name: "Orphan", NumPlayers: 2, Participants: []string{"A", "B"},
	})
	require.ErrorIs(t, err, ErrPersistence)

	_, err = registry.Get(ctx, "Orphan")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	list, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTournamentService_CreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registry.Create(context.Background(), member, CreateTournamentInput{
		Name: "Friday", NumPlayers: 2, Participants: []string{"A", "B"},
	})
	require.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestTournamentService_ListInCreationOrder(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "One", []string{"A", "B"}, nil)
	env.create(t, "Two", []string{"C", "D"}, nil)

	list, err := env.registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].Name)
	assert.Equal(t, "Two", list[1].Name)
}

func TestTournamentService_GetUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registry.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
