package replication

import (
	"sync"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/peer"
)

// recoverySession собирает по одному ответу с бэкапом от каждого опрошенного соединения
type recoverySession struct {
	mu         sync.Mutex
	pending    map[string]struct{}
	candidates []models.Snapshot
	done       chan struct{}
	closed     bool
}

func newRecoverySession(conns []*peer.Conn) *recoverySession {
	r := &recoverySession{
		pending: make(map[string]struct{}, len(conns)),
		done:    make(chan struct{}),
	}
	for _, c := range conns {
		r.pending[c.ID()] = struct{}{}
	}
	r.closeIfComplete()
	return r
}

// deliver записывает ответ connID, snap равен nil для пустого ответа.
// Ответы неопрошенных соединений и повторные ответы отклоняются.
func (r *recoverySession) deliver(connID string, snap *models.Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[connID]; !ok || r.closed {
		return false
	}
	delete(r.pending, connID)
	if snap != nil {
		r.candidates = append(r.candidates, *snap)
	}
	r.closeIfComplete()
	return true
}

// forget перестает ждать connID
func (r *recoverySession) forget(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, connID)
	r.closeIfComplete()
}

func (r *recoverySession) missing() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// finish закрывает сессию и возвращает кандидатов в порядке поступления
func (r *recoverySession) finish() []models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.closed = true
		close(r.done)
	}
	return append([]models.Snapshot(nil), r.candidates...)
}

// closeIfComplete вызывается под mu
func (r *recoverySession) closeIfComplete() {
	if len(r.pending) == 0 && !r.closed {
		r.closed = true
		close(r.done)
	}
}
