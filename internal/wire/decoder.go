package wire

import (
	"bytes"
	"log/slog"

	"github.com/iudanet/peernote/internal/models"
)

// Decoder собирает записи, пришедшие частями за несколько чтений.
// Полные строки декодируются сразу, неполный хвост хранится до прихода
// остатка. Decoder принадлежит одному потоку и не безопасен
// для конкурентного использования.
type Decoder struct {
	logger   *slog.Logger
	pending  []byte
	maxSize  int
	skipping bool // отбрасываем хвост слишком длинной записи до следующего разделителя
}

// NewDecoder создает декодер с ограничением MaxRecordSize на запись
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger, maxSize: MaxRecordSize}
}

// Feed принимает очередной прочитанный кусок и возвращает все записи,
// завершенные им, по порядку.
func (d *Decoder) Feed(p []byte) []models.Message {
	var out []models.Message

	for len(p) > 0 {
		idx := bytes.IndexByte(p, Separator)
		if idx < 0 {
			d.buffer(p)
			break
		}

		chunk := p[:idx]
		p = p[idx+1:]

		if d.skipping {
			// Конец слишком длинной записи - возвращаемся в обычный режим
			d.skipping = false
			continue
		}

		var line []byte
		if len(d.pending) > 0 {
			line = append(d.pending, chunk...)
			d.pending = nil
		} else {
			line = chunk
		}

		if len(line) > d.maxSize {
			d.logger.Warn("dropping oversized record", "bytes", len(line), "limit", d.maxSize)
			continue
		}

		if msg, ok := decodeLine(line, d.logger); ok {
			out = append(out, msg)
		}
	}

	return out
}

// Buffered сообщает, сколько байт неполной записи удерживается
func (d *Decoder) Buffered() int {
	return len(d.pending)
}

func (d *Decoder) buffer(fragment []byte) {
	if d.skipping {
		return
	}
	if len(d.pending)+len(fragment) > d.maxSize {
		d.logger.Warn("discarding oversized partial record",
			"bytes", len(d.pending)+len(fragment),
			"limit", d.maxSize)
		d.pending = nil
		d.skipping = true
		return
	}
	// Копируем: буфер чтения переиспользуется вызывающей стороной
	d.pending = append(d.pending, fragment...)
}
