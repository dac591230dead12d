package crdt

import (
	"sync"

	"github.com/iudanet/peernote/internal/models"
)

// Register - LWW регистр, хранящий весь документ целиком.
// Каждая запись помечается часами Лампорта. Удаленный снимок заменяет
// текущий, только если его метка строго больше локальных часов.
// Слияния нет: из конкурентных правок побеждает пришедшая с большей меткой,
// а при равных часах два пира могут остаться с разными текстами.
type Register struct {
	clock   *LamportClock
	current models.Snapshot
	mu      sync.RWMutex
}

// NewRegister создает пустой регистр на часах clock
func NewRegister(clock *LamportClock) *Register {
	return &Register{clock: clock}
}

// Clock возвращает часы Лампорта регистра
func (r *Register) Clock() *LamportClock {
	return r.clock
}

// LocalWrite фиксирует локальную правку и возвращает снимок с меткой
func (r *Register) LocalWrite(text string) models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := models.Snapshot{Text: text, Lamport: r.clock.Increment()}
	r.current = snap

	return snap
}

// Apply принимает удаленный снимок, если snap.Lamport > clock.Time().
// При принятии часы переходят на snap.Lamport+1.
func (r *Register) Apply(snap models.Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clock.UpdateIfNewer(snap.Lamport); !ok {
		return false
	}
	r.current = snap

	return true
}

// Restore безусловно устанавливает snap (восстановление из бэкапа)
// и сдвигает часы за него.
func (r *Register) Restore(snap models.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock.Update(snap.Lamport)
	r.current = snap
}

// Current возвращает последний записанный или принятый снимок
func (r *Register) Current() models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current
}
