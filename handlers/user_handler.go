package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/poker-club/services"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), actorFrom(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"users": users})
}

// CreateUser godoc
// @Summary Создать аккаунт
// @Tags users
// @Accept json
// @Produce json
// @Param input body services.CreateUserInput true "Аккаунт"
// @Success 201 {object} map[string]interface{} "Аккаунт создан"
// @Failure 400 {object} map[string]string "Нет логина или пароля"
// @Failure 403 {object} map[string]string "Нужны права администратора"
// @Failure 409 {object} map[string]string "Логин занят"
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input services.CreateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.Create(r.Context(), actorFrom(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"user": user})
}

func (h *UserHandler) SetSuspension(w http.ResponseWriter, r *http.Request) {
	username, err := usernameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Suspended *bool `json:"suspended"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Suspended == nil {
		badRequestResponse(w, r, errors.New("suspended is required"))
		return
	}

	user, err := h.userService.SetSuspended(r.Context(), actorFrom(r), username, *input.Suspended)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username, err := usernameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.userService.Delete(r.Context(), actorFrom(r), username); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func usernameParam(r *http.Request) (string, error) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		return "", errors.New("username is required")
	}
	return username, nil
}
