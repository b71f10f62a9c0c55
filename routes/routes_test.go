package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/poker-club/handlers"
	"github.com/Dosada05/poker-club/livefeed"
	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/services"
	"github.com/Dosada05/poker-club/spreadsheet"
	"github.com/Dosada05/poker-club/utils"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("routes-test-secret")

type apiEnv struct {
	server *httptest.Server
	hub    *livefeed.Hub
	admin  string
	member string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	store, err := repositories.NewFileStore(dir, logger)
	require.NoError(t, err)
	users := repositories.NewJSONUserRepository(filepath.Join(dir, "users.json"))
	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.Account{Username: "boss", PasswordHash: hash, IsAdmin: true}))
	require.NoError(t, users.Create(context.Background(), &models.Account{Username: "guest", PasswordHash: hash}))

	ctx, cancel := context.WithCancel(context.Background())
	hub := livefeed.NewHub(logger)
	go hub.Run(ctx)

	history := services.NewHistoryService(store)
	ledger := services.NewLedgerService(store, history, hub, logger)
	registry := services.NewTournamentService(store, ledger, services.Defaults{StackSize: 10000, Earnings: models.Earnings{1: 70, 2: 30}}, logger)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:       handlers.NewAuthHandler(services.NewAuthService(users, logger), string(testSecret), time.Hour),
		Users:      handlers.NewUserHandler(services.NewUserService(users, logger)),
		Tournament: handlers.NewTournamentHandler(registry, history),
		Ledger:     handlers.NewLedgerHandler(ledger),
		Ranking:    handlers.NewRankingHandler(services.NewRankingService(store, logger)),
		Admin:      handlers.NewAdminHandler(nil),
		WebSocket:  handlers.NewWebSocketHandler(hub, ledger, []string{"*"}),
	}, Options{JWTSecret: testSecret, CORSOrigins: []string{"*"}, Accounts: users})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	memberToken, err := utils.GenerateJWT(models.Actor{Username: "guest"}, testSecret, time.Hour)
	require.NoError(t, err)
	env := &apiEnv{server: server, hub: hub, member: memberToken}
	env.admin = env.login(t, "boss", "pw")
	return env
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := make(map[string]json.RawMessage)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(bytes.TrimSpace(data)) > 0 && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp.StatusCode, out
}

func (e *apiEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/auth/login", "", models.Credentials{Username: username, Password: password})
	require.Equal(t, http.StatusOK, status)
	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))
	return token
}

func friday() services.CreateTournamentInput {
	return services.CreateTournamentInput{
		Name:         "Friday",
		NumPlayers:   3,
		Participants: []string{"A", "B", "C"},
		Bounties:     []string{"B"},
	}
}

func TestAPI_TournamentLifecycle(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodPost, "/tournaments", "", friday())
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodPost, "/tournaments", env.member, friday())
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(t, http.MethodPost, "/tournaments", env.admin, friday())
	require.Equal(t, http.StatusCreated, status)
	var created models.Tournament
	require.NoError(t, json.Unmarshal(body["tournament"], &created))
	assert.Equal(t, 10000, created.StackSize)

	status, _ = env.do(t, http.MethodPost, "/tournaments", env.admin, friday())
	assert.Equal(t, http.StatusConflict, status)

	status, body = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", env.admin,
		services.EliminationInput{Player: "B", EliminatedBy: "A", EliminationTime: "20:00"})
	require.Equal(t, http.StatusCreated, status)
	var slot models.Slot
	require.NoError(t, json.Unmarshal(body["slot"], &slot))
	assert.Equal(t, 3, slot.Rank)
	assert.Equal(t, 1, *slot.BountyPoints)

	status, body = env.do(t, http.MethodGet, "/tournaments/Friday/remaining", "", nil)
	require.Equal(t, http.StatusOK, status)
	var remaining []string
	require.NoError(t, json.Unmarshal(body["remaining"], &remaining))
	assert.Equal(t, []string{"A", "C"}, remaining)

	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", env.admin,
		services.EliminationInput{Player: "B", EliminatedBy: "C"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", env.admin,
		services.EliminationInput{Player: "Z", EliminatedBy: "A"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", env.admin,
		services.EliminationInput{Player: "C", EliminatedBy: "A", EliminationTime: "soon"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodGet, "/tournaments/Friday/history", "", nil)
	require.Equal(t, http.StatusOK, status)
	var history []models.AuditEntry
	require.NoError(t, json.Unmarshal(body["history"], &history))
	assert.Len(t, history, 3)

	status, body = env.do(t, http.MethodGet, "/tournaments/Friday/standings", "", nil)
	require.Equal(t, http.StatusOK, status)
	var standings models.Standings
	require.NoError(t, json.Unmarshal(body["standings"], &standings))
	assert.Equal(t, 100.0, standings.PrizePool)
	assert.False(t, standings.Finished)

	status, _ = env.do(t, http.MethodGet, "/tournaments/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/tournaments", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.Tournament
	require.NoError(t, json.Unmarshal(body["tournaments"], &list))
	assert.Len(t, list, 1)
}

func TestAPI_RejectsMalformedBodies(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodPost, "/tournaments", env.admin, map[string]any{"name": "X", "color": "red"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"username": "boss", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_UserManagement(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodGet, "/users", env.member, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodPost, "/users", env.admin, services.CreateUserInput{Username: "dealer", Password: "pw2"})
	require.Equal(t, http.StatusCreated, status)
	env.login(t, "dealer", "pw2")

	status, _ = env.do(t, http.MethodPatch, "/users/dealer/suspension", env.admin, map[string]bool{"suspended": true})
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPost, "/auth/login", "", models.Credentials{Username: "dealer", Password: "pw2"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodDelete, "/users/boss", env.admin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodDelete, "/users/dealer", env.admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAPI_IssuedTokenFollowsAccountState(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodPost, "/users", env.admin, services.CreateUserInput{Username: "ops", Password: "pw3", IsAdmin: true})
	require.Equal(t, http.StatusCreated, status)
	ops := env.login(t, "ops", "pw3")

	status, _ = env.do(t, http.MethodPost, "/tournaments", ops, friday())
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, http.MethodPatch, "/users/ops/suspension", env.admin, map[string]bool{"suspended": true})
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", ops, services.EliminationInput{Player: "B", EliminatedBy: "A"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodDelete, "/users/ops", env.admin, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", ops, services.EliminationInput{Player: "B", EliminatedBy: "A"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(t, http.MethodGet, "/tournaments/Friday/remaining", "", nil)
	require.Equal(t, http.StatusOK, status)
	var remaining []string
	require.NoError(t, json.Unmarshal(body["remaining"], &remaining))
	assert.Equal(t, []string{"A", "B", "C"}, remaining)
}

func TestAPI_RankingImport(t *testing.T) {
	env := newAPIEnv(t)
	data, err := spreadsheet.Encode("Classement", models.RankingColumns, [][]any{
		{"1", "Alice", 10, 1, 11, 5.5, 1},
	})
	require.NoError(t, err)

	upload := func(path, filename string) int {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, env.server.URL+path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+env.admin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, upload("/ranking/import", "ranking.csv"))
	assert.Equal(t, http.StatusOK, upload("/ranking/import?preview=true", "ranking.xlsx"))

	status, body := env.do(t, http.MethodGet, "/ranking", "", nil)
	require.Equal(t, http.StatusOK, status)
	var ranking models.RankingTable
	require.NoError(t, json.Unmarshal(body["ranking"], &ranking))
	assert.Empty(t, ranking.Rows)

	assert.Equal(t, http.StatusOK, upload("/ranking/import", "ranking.xlsx"))
	_, body = env.do(t, http.MethodGet, "/ranking", "", nil)
	require.NoError(t, json.Unmarshal(body["ranking"], &ranking))
	require.Len(t, ranking.Rows, 1)
	assert.Equal(t, "Alice", ranking.Rows[0].Joueurs)
}

func TestAPI_SnapshotWithoutStorage(t *testing.T) {
	env := newAPIEnv(t)

	status, _ := env.do(t, http.MethodPost, "/admin/snapshots", env.admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAPI_Health(t *testing.T) {
	env := newAPIEnv(t)

	resp, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_LiveFeed(t *testing.T) {
	env := newAPIEnv(t)
	status, _ := env.do(t, http.MethodPost, "/tournaments", env.admin, friday())
	require.Equal(t, http.StatusCreated, status)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/tournaments/Friday"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() livefeed.Message {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg livefeed.Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, handlers.MessageStandingsSnapshot, read().Type)
	require.Eventually(t, func() bool {
		return env.hub.Clients(livefeed.TournamentRoom("Friday")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, _ = env.do(t, http.MethodPost, "/tournaments/Friday/eliminations", env.admin,
		services.EliminationInput{Player: "C", EliminatedBy: "A", EliminationTime: "20:00"})
	require.Equal(t, http.StatusCreated, status)

	msg := read()
	assert.Equal(t, services.MessageLedgerUpdated, msg.Type)
	assert.Equal(t, livefeed.TournamentRoom("Friday"), msg.RoomID)

	_, _, err = websocket.DefaultDialer.Dial(strings.Replace(wsURL, "Friday", "ghost", 1), nil)
	assert.Error(t, err)
}
