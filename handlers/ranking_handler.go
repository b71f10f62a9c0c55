package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-club/services"
	"github.com/Dosada05/poker-club/spreadsheet"
)

const maxUploadBytes = 10 << 20 // 10MB

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

func (h *RankingHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.GetRanking(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"ranking": ranking})
}

// ImportHandler godoc
// @Summary Импортировать общий рейтинг
// @Tags ranking
// @Description Принимает .xlsx (поле "file"), первая строка с заголовками. С preview=true ничего не сохраняет.
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Таблица рейтинга"
// @Param preview query bool false "Только проверить таблицу"
// @Success 200 {object} map[string]interface{} "Нормализованный рейтинг"
// @Failure 400 {object} map[string]string "Файл не передан или не читается"
// @Failure 403 {object} map[string]string "Нужны права администратора"
// @Failure 422 {object} map[string]string "Нет обязательной колонки / нечисловое значение"
// @Security BearerAuth
// @Router /ranking/import [post]
func (h *RankingHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	preview := false
	if raw := r.URL.Query().Get("preview"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid preview query parameter"))
			return
		}
		preview = v
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New(`multipart field "file" is required`))
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		badRequestResponse(w, r, fmt.Errorf("unsupported file type %q, expected .xlsx", ext))
		return
	}

	table, err := spreadsheet.ReadTable(file)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if preview {
		ranking, err := h.rankingService.PreviewRanking(r.Context(), table)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, jsonResponse{"ranking": ranking, "preview": true})
		return
	}

	ranking, err := h.rankingService.ImportRanking(r.Context(), actorFrom(r), table)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"ranking": ranking})
}
