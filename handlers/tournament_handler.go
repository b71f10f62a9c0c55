package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-club/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	historyService    services.HistoryService
}

func NewTournamentHandler(ts services.TournamentService, hs services.HistoryService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		historyService:    hs,
	}
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Description Регистрирует турнир вместе с пустым журналом выбываний.
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Турнир"
// @Success 201 {object} map[string]interface{} "Турнир создан"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 403 {object} map[string]string "Нужны права администратора"
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), actorFrom(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"tournament": tournament})
}

// GetByNameHandler обрабатывает GET /tournaments/{name}
func (h *TournamentHandler) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Get(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// ListHandler обрабатывает GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournaments": tournaments})
}

// HistoryHandler обрабатывает GET /tournaments/{name}/history
func (h *TournamentHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.historyService.List(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"history": history})
}
