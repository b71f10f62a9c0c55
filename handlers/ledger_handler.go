package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-club/services"
)

type LedgerHandler struct {
	ledgerService services.LedgerService
}

func NewLedgerHandler(ls services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ls}
}

// RecordEliminationHandler godoc
// @Summary Записать выбывание игрока
// @Tags ledger
// @Description Заполняет первый свободный слот журнала. Игрок с баунти приносит выбившему 1 очко.
// @Accept json
// @Produce json
// @Param name path string true "Tournament name"
// @Param input body services.EliminationInput true "Выбывание"
// @Success 201 {object} map[string]interface{} "Заполненный слот"
// @Failure 400 {object} map[string]string "Неверное время"
// @Failure 403 {object} map[string]string "Нужны права администратора"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Игрок уже выбыл / журнал заполнен"
// @Failure 422 {object} map[string]string "Игрок не участвует в турнире"
// @Security BearerAuth
// @Router /tournaments/{name}/eliminations [post]
func (h *LedgerHandler) RecordEliminationHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EliminationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.ledgerService.RecordElimination(r.Context(), actorFrom(r), name, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"slot": slot})
}

func (h *LedgerHandler) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	ledger, err := h.ledgerService.GetLedger(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"ledger": ledger})
}

func (h *LedgerHandler) RemainingHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	remaining, err := h.ledgerService.GetRemainingPlayers(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"remaining": remaining})
}

// StandingsHandler обрабатывает GET /tournaments/{name}/standings
func (h *LedgerHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	standings, err := h.ledgerService.GetStandings(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"standings": standings})
}
