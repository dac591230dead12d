// Package document описывает границу между движком синхронизации и
// интерфейсом редактирования.
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

//go:generate moq -out adapter_mock.go . Adapter

// Adapter - интерфейс редактирования с точки зрения репликации
type Adapter interface {
	// Text возвращает текущий текст документа
	Text() string
	// Replace заменяет документ целиком без вызова хуков локальной правки
	Replace(text string)
}

// EditFunc вызывается с полным текстом после локальной правки
type EditFunc func(text string)

// Buffer - потокобезопасный документ в памяти
type Buffer struct {
	mu    sync.RWMutex
	text  string
	hooks []EditFunc
}

var _ Adapter = (*Buffer)(nil)

// NewBuffer создает буфер с текстом text
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Text возвращает текущий текст
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Replace устанавливает текст для удаленных обновлений и восстановления
func (b *Buffer) Replace(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

// OnLocalEdit регистрирует fn, вызываемую после каждой локальной правки
func (b *Buffer) OnLocalEdit(fn EditFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, fn)
}

// Edit устанавливает текст как локальную правку и вызывает хуки вне блокировки
func (b *Buffer) Edit(text string) {
	b.mu.Lock()
	b.text = text
	hooks := append([]EditFunc(nil), b.hooks...)
	b.mu.Unlock()

	for _, fn := range hooks {
		fn(text)
	}
}

// Append добавляет line в конец документа как локальную правку
func (b *Buffer) Append(line string) {
	b.mu.Lock()
	text := b.text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += line
	b.text = text
	hooks := append([]EditFunc(nil), b.hooks...)
	b.mu.Unlock()

	for _, fn := range hooks {
		fn(text)
	}
}

// DefaultExportPath - файл для Export, если путь не указан
const DefaultExportPath = "shared_note.txt"

// Export записывает текст документа без крайних пробелов в path
func Export(doc Adapter, path string) error {
	if doc == nil {
		return errors.New("export: no document")
	}
	if path == "" {
		path = DefaultExportPath
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(doc.Text())), 0o644); err != nil {
		return fmt.Errorf("export note: %w", err)
	}
	return nil
}
