package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/iudanet/peernote/internal/crypto"
	"github.com/iudanet/peernote/internal/models"
)

//go:generate moq -out backups_mock.go . HistorySource

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistorySource отдает последние сохраненные бэкапы
type HistorySource interface {
	History(ctx context.Context, limit int) ([]models.Snapshot, error)
}

// BackupsHandler обрабатывает запросы истории бэкапов
type BackupsHandler struct {
	logger  *slog.Logger
	history HistorySource
}

// NewBackupsHandler создает handler истории бэкапов
func NewBackupsHandler(logger *slog.Logger, history HistorySource) *BackupsHandler {
	return &BackupsHandler{logger: logger, history: history}
}

// BackupsResponse - тело ответа GET /api/v1/backups
type BackupsResponse struct {
	Backups []DocumentResponse `json:"backups"`
}

// List обрабатывает GET /api/v1/backups?limit=N
func (h *BackupsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, h.logger, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	history, err := h.history.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to read backup history", slog.Any("error", err))
		writeError(w, h.logger, http.StatusInternalServerError, "failed to read backups")
		return
	}

	resp := BackupsResponse{Backups: make([]DocumentResponse, 0, len(history))}
	for _, snap := range history {
		resp.Backups = append(resp.Backups, DocumentResponse{
			Lamport:     snap.Lamport,
			Fingerprint: crypto.Fingerprint(snap.Text),
			Length:      utf8.RuneCountInString(snap.Text),
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
