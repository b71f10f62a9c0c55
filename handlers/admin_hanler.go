package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-club/services"
)

type AdminHandler struct {
	backupService services.BackupService
}

// NewAdminHandler принимает nil, если объектное хранилище не настроено.
func NewAdminHandler(bs services.BackupService) *AdminHandler {
	return &AdminHandler{backupService: bs}
}

// Snapshot godoc
// @Summary Выгрузить снапшот данных клуба
// @Tags admin
// @Produce json
// @Success 201 {object} services.SnapshotResult
// @Failure 403 {object} map[string]string "Нужны права администратора"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /admin/snapshots [post]
func (h *AdminHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.backupService == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	result, err := h.backupService.Snapshot(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, result)
}
