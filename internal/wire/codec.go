// Package wire реализует NDJSON кодек записей в потоках пиров:
// один JSON объект на строку, битые строки отбрасываются и логируются.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/peernote/internal/models"
)

// Separator завершает каждую запись на проводе
const Separator = '\n'

// MaxRecordSize ограничивает одну запись без разделителя
const MaxRecordSize = 1 << 20

// ErrRecordTooLarge возвращается Encode для записей больше MaxRecordSize
var ErrRecordTooLarge = errors.New("wire: record too large")

// Encode сериализует msg в компактный JSON с одним разделителем
func Encode(msg models.Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	if len(payload) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(payload))
	}
	return append(payload, Separator), nil
}

// DecodeStream делит buf по разделителю и разбирает каждую строку отдельно.
// Строка, которую не удалось разобрать, отбрасывается и логируется, следующие
// строки декодируются дальше. Хвост без разделителя тоже декодируется,
// поэтому передавать нужно целые записи.
func DecodeStream(buf []byte, logger *slog.Logger) []models.Message {
	if logger == nil {
		logger = slog.Default()
	}

	var out []models.Message
	for _, line := range bytes.Split(buf, []byte{Separator}) {
		if msg, ok := decodeLine(line, logger); ok {
			out = append(out, msg)
		}
	}
	return out
}

func decodeLine(line []byte, logger *slog.Logger) (models.Message, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.Message{}, false
	}

	var msg models.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		logger.Warn("dropping malformed record",
			"error", err,
			"bytes", len(line))
		return models.Message{}, false
	}
	return msg, true
}
