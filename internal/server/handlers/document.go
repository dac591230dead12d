package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/iudanet/peernote/internal/crypto"
	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/replication"
)

//go:generate moq -out document_mock.go . DocumentSource Recoverer

// DocumentSource отдает локальное состояние документа
type DocumentSource interface {
	Text() string
	Lamport() int64
}

// Recoverer запускает восстановление из бэкапа
type Recoverer interface {
	Recover(ctx context.Context) (models.Snapshot, error)
}

// DocumentHandler обрабатывает запросы состояния документа и восстановления
type DocumentHandler struct {
	logger    *slog.Logger
	doc       DocumentSource
	recoverer Recoverer
}

// NewDocumentHandler создает handler документа
func NewDocumentHandler(logger *slog.Logger, doc DocumentSource, recoverer Recoverer) *DocumentHandler {
	return &DocumentHandler{logger: logger, doc: doc, recoverer: recoverer}
}

// DocumentResponse описывает документ без его содержимого
type DocumentResponse struct {
	Lamport     int64  `json:"lamport"`
	Fingerprint string `json:"fingerprint"`
	Length      int    `json:"length"`
}

// Document обрабатывает GET /api/v1/document
func (h *DocumentHandler) Document(w http.ResponseWriter, r *http.Request) {
	text := h.doc.Text()
	writeJSON(w, h.logger, http.StatusOK, DocumentResponse{
		Lamport:     h.doc.Lamport(),
		Fingerprint: crypto.Fingerprint(text),
		Length:      utf8.RuneCountInString(text),
	})
}

// Recover обрабатывает POST /api/v1/recover
func (h *DocumentHandler) Recover(w http.ResponseWriter, r *http.Request) {
	snap, err := h.recoverer.Recover(r.Context())
	switch {
	case err == nil:
		writeJSON(w, h.logger, http.StatusOK, DocumentResponse{
			Lamport:     snap.Lamport,
			Fingerprint: crypto.Fingerprint(snap.Text),
			Length:      utf8.RuneCountInString(snap.Text),
		})
	case errors.Is(err, replication.ErrNoBackup):
		writeError(w, h.logger, http.StatusNotFound, err.Error())
	case errors.Is(err, replication.ErrRecoveryInProgress):
		writeError(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.Error("recovery failed", slog.Any("error", err))
		writeError(w, h.logger, http.StatusInternalServerError, "recovery failed")
	}
}
