package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/scorekeep/internal/api/response"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// BackupHandler handles export and import of the whole store
type BackupHandler struct {
	tracker *tracker.Service
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(trackerService *tracker.Service) *BackupHandler {
	return &BackupHandler{
		tracker: trackerService,
	}
}

// Export handles GET /api/v1/export
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.tracker.ExportData(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="scorekeep-backup.json"`)
	response.JSON(w, http.StatusOK, backup)
}

// Import handles POST /api/v1/import
// The body replaces the entire store
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup storage.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		WriteError(w, NewInvalidRequestError("invalid backup body"))
		return
	}

	if err := h.tracker.ImportData(r.Context(), backup); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
