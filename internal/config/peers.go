package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/validation"
)

type peersFile struct {
	Peers []models.PeerConfigEntry `json:"peers"`
}

// LoadPeers читает статический список пиров. Отсутствующий или нечитаемый
// файл дает пустой список, невалидные записи пропускаются. Оба случая логируются.
func LoadPeers(path string, logger *slog.Logger) []models.PeerConfigEntry {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("no peers file, relying on discovery", "path", path)
		} else {
			logger.Warn("failed to read peers file", "path", path, "error", err)
		}
		return nil
	}

	entries, err := ParsePeers(data)
	if err != nil {
		logger.Warn("failed to parse peers file", "path", path, "error", err)
		return nil
	}

	valid := make([]models.PeerConfigEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if err := validation.ValidatePeerEntry(entry); err != nil {
			logger.Warn("skipping invalid peer entry", "ip", entry.IP, "error", err)
			continue
		}
		if _, dup := seen[entry.IP]; dup {
			logger.Warn("skipping duplicate peer entry", "ip", entry.IP)
			continue
		}
		seen[entry.IP] = struct{}{}
		valid = append(valid, entry)
	}

	return valid
}

// ParsePeers разбирает {"peers":[...]} или массив верхнего уровня
func ParsePeers(data []byte) ([]models.PeerConfigEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty peers file")
	}

	if trimmed[0] == '[' {
		var entries []models.PeerConfigEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode peers array: %w", err)
		}
		return entries, nil
	}

	var file peersFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("decode peers object: %w", err)
	}
	return file.Peers, nil
}
