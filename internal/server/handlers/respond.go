package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse - тело каждого ответа не 2xx
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON кодирует v в ответ с заданным статусом
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}
