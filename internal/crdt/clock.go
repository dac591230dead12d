package crdt

import (
	"sync"

	"github.com/google/uuid"
)

// LamportClock представляет логические часы Лампорта для упорядочивания правок
// документа между узлами без синхронизации физического времени.
type LamportClock struct {
	nodeID  string     // уникальный идентификатор узла
	counter int64      // монотонно неубывающий счетчик
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// NewLamportClock создает часы с уникальным идентификатором узла (UUID).
func NewLamportClock() *LamportClock {
	return &LamportClock{
		counter: 0,
		nodeID:  uuid.New().String(),
	}
}

// NewLamportClockWithNodeID создает часы с заданным идентификатором узла.
// Используется, когда идентификатор узла хранится между перезапусками.
func NewLamportClockWithNodeID(nodeID string) *LamportClock {
	return &LamportClock{
		counter: 0,
		nodeID:  nodeID,
	}
}

// Increment регистрирует локальное событие и возвращает новое значение.
func (lc *LamportClock) Increment() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.counter++
	return lc.counter
}

// Update регистрирует получение удаленного события.
// Согласно алгоритму Лампорта: counter = max(local_counter, remote_timestamp) + 1
func (lc *LamportClock) Update(remoteTimestamp int64) int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	return lc.updateLocked(remoteTimestamp)
}

// UpdateIfNewer применяет Update только если remoteTimestamp строго больше
// текущего значения счетчика. Проверка и обновление выполняются атомарно.
// Возвращает значение счетчика после вызова и признак того, что обновление произошло.
func (lc *LamportClock) UpdateIfNewer(remoteTimestamp int64) (int64, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if remoteTimestamp <= lc.counter {
		return lc.counter, false
	}

	return lc.updateLocked(remoteTimestamp), true
}

func (lc *LamportClock) updateLocked(remoteTimestamp int64) int64 {
	if remoteTimestamp > lc.counter {
		lc.counter = remoteTimestamp
	}
	lc.counter++

	return lc.counter
}

// Time возвращает текущее значение счетчика без его изменения.
func (lc *LamportClock) Time() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	return lc.counter
}

// NodeID возвращает идентификатор узла.
func (lc *LamportClock) NodeID() string {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	return lc.nodeID
}

// SetTime устанавливает счетчик в заданное значение.
// Используется для восстановления состояния часов после перезапуска.
// Отрицательные значения игнорируются.
func (lc *LamportClock) SetTime(timestamp int64) {
	if timestamp < 0 {
		return
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.counter = timestamp
}
