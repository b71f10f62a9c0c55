package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/poker-club/livefeed"
	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/stretchr/testify/require"
)

var (
	admin  = models.Actor{Username: "boss", IsAdmin: true}
	member = models.Actor{Username: "guest"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingNotifier struct {
	mu       sync.Mutex
	rooms    []string
	messages []livefeed.Message
}

func (n *recordingNotifier) BroadcastToRoom(roomID string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, roomID)
	if m, ok := message.(livefeed.Message); ok {
		n.messages = append(n.messages, m)
	}
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	for i, m := range n.messages {
		out[i] = m.Type
	}
	return out
}

type testEnv struct {
	dir      string
	store    *repositories.FileStore
	history  HistoryService
	ledger   LedgerService
	registry TournamentService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := repositories.NewFileStore(dir, discardLogger())
	require.NoError(t, err)

	env := &testEnv{dir: dir, store: store, notifier: &recordingNotifier{}}
	env.history = NewHistoryService(store)
	env.ledger = NewLedgerService(store, env.history, env.notifier, discardLogger())
	env.ledger.(*ledgerService).now = func() time.Time {
		return time.Date(2026, 3, 6, 21, 45, 0, 0, time.UTC)
	}
	env.registry = NewTournamentService(store, env.ledger, Defaults{
		StackSize: 20000,
		Earnings:  models.Earnings{1: 60, 2: 30, 3: 10},
	}, discardLogger())
	return env
}

func (e *testEnv) create(t *testing.T, name string, participants, bounties []string) *models.Tournament {
	t.Helper()
	created, err := e.registry.Create(context.Background(), admin, CreateTournamentInput{
		Name:         name,
		NumPlayers:   len(participants),
		Participants: participants,
		Bounties:     bounties,
	})
	require.NoError(t, err)
	return created
}

func (e *testEnv) eliminate(t *testing.T, name, player, by, at string) *models.Slot {
	t.Helper()
	slot, err := e.ledger.RecordElimination(context.Background(), admin, name, EliminationInput{
		Player: player, EliminatedBy: by, EliminationTime: at,
	})
	require.NoError(t, err)
	return slot
}

func actions(entries []models.AuditEntry) []models.AuditAction {
	out := make([]models.AuditAction, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}
