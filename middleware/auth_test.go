package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type accountMap map[string]*models.Account

func (m accountMap) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	if username == "broken" {
		return nil, errors.New("users.json: permission denied")
	}
	account, ok := m[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return account, nil
}

var testAccounts = accountMap{
	"alice":  {Username: "alice", IsAdmin: true},
	"bob":    {Username: "bob"},
	"viewer": {Username: "viewer"},
	"frozen": {Username: "frozen", IsAdmin: true, Suspended: true},
}

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Actor", actor.Username)
		w.WriteHeader(http.StatusNoContent)
	})
}

func token(t *testing.T, actor models.Actor, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.GenerateJWT(actor, testSecret, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthenticate(t *testing.T) {
	h := Authenticate(testSecret, testAccounts)(echoActor(t))

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantActor  string
	}{
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer not-a-jwt", "", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + token(t, models.Actor{Username: "old"}, -time.Minute), "", http.StatusUnauthorized, ""},
		{"header", "Bearer " + token(t, models.Actor{Username: "alice"}, time.Hour), "", http.StatusNoContent, "alice"},
		{"query", "", token(t, models.Actor{Username: "viewer"}, time.Hour), http.StatusNoContent, "viewer"},
		{"deleted account", "Bearer " + token(t, models.Actor{Username: "ghost", IsAdmin: true}, time.Hour), "", http.StatusUnauthorized, ""},
		{"suspended account", "Bearer " + token(t, models.Actor{Username: "frozen", IsAdmin: true}, time.Hour), "", http.StatusForbidden, ""},
		{"lookup failure", "Bearer " + token(t, models.Actor{Username: "broken"}, time.Hour), "", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.query != "" {
				req.URL.RawQuery = "token=" + tt.query
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, rec.Header().Get("X-Actor"))
		})
	}
}

func TestAuthenticate_RejectsOtherSecret(t *testing.T) {
	tok, err := utils.GenerateJWT(models.Actor{Username: "mallory", IsAdmin: true}, []byte("other"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	Authenticate(testSecret, testAccounts)(echoActor(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	h := Authenticate(testSecret, testAccounts)(RequireAdmin(echoActor(t)))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.Actor{Username: "bob"}, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.Actor{Username: "alice", IsAdmin: true}, time.Hour))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice", rec.Header().Get("X-Actor"))
}

func TestRequireAdmin_UsesStoredRole(t *testing.T) {
	h := Authenticate(testSecret, testAccounts)(RequireAdmin(echoActor(t)))

	// bob больше не администратор, хотя токен выдан с is_admin=true
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.Actor{Username: "bob", IsAdmin: true}, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
