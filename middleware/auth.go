package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/utils"
)

// AccountLookup - источник актуального состояния учётной записи.
type AccountLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}

// Authenticate проверяет Bearer-токен, затем перечитывает учётную запись:
// удалённый аккаунт получает 401, заблокированный 403. Права администратора
// берутся из хранилища, а не из токена.
func Authenticate(secret []byte, accounts AccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			actor, err := utils.ParseJWT(token, secret)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			account, err := accounts.GetByUsername(r.Context(), actor.Username)
			switch {
			case errors.Is(err, repositories.ErrUserNotFound):
				writeError(w, http.StatusUnauthorized, "account no longer exists")
				return
			case err != nil:
				slog.ErrorContext(r.Context(), "account lookup failed", slog.String("username", actor.Username), slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
				return
			case account.Suspended:
				writeError(w, http.StatusForbidden, "this account has been suspended")
				return
			}
			actor.IsAdmin = account.IsAdmin
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin должен идти после Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.IsAdmin {
			writeError(w, http.StatusForbidden, "operation requires administrator privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
