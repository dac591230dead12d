// Package replication поддерживает согласованность общего документа между
// пирами: рассылает локальные правки, применяет удаленные по LWW
// и проводит обмен бэкапами для восстановления.
package replication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/peernote/internal/crdt"
	"github.com/iudanet/peernote/internal/crypto"
	"github.com/iudanet/peernote/internal/document"
	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/peer"
	"github.com/iudanet/peernote/internal/storage"
	"github.com/iudanet/peernote/internal/transport"
)

var (
	// ErrNoBackup возвращается Recover, если бэкапа нет ни у пиров, ни локально
	ErrNoBackup = errors.New("no backup found")

	// ErrRecoveryInProgress возвращается, если Recover вызван во время другого восстановления
	ErrRecoveryInProgress = errors.New("recovery already in progress")

	// ErrNotRunning возвращается, если Run уже завершился и правку некому применить
	ErrNotRunning = errors.New("replication is not running")
)

// DefaultRecoveryWindow ограничивает ожидание ответов пиров в Recover
const DefaultRecoveryWindow = 4 * time.Second

//go:generate moq -out network_mock.go . Network

// Network дает репликации доступ к живым соединениям
type Network interface {
	// Conns возвращает текущие зарегистрированные соединения
	Conns() []*peer.Conn
	// Drop закрывает соединение, отправка в которое не удалась
	Drop(c *peer.Conn)
}

// Service - движок репликации. Удаленные правки и восстановление доходят
// до документа только пока работает Run.
type Service struct {
	register *crdt.Register
	doc      document.Adapter
	backups  storage.BackupStorage
	network  Network
	inbound  <-chan transport.Inbound
	logger   *slog.Logger
	window   time.Duration

	restoreCh chan restoreRequest
	localCh   chan localRequest
	stopped   chan struct{}
	stopOnce  sync.Once

	mu       sync.Mutex
	recovery *recoverySession

	wg sync.WaitGroup
}

type restoreRequest struct {
	snap models.Snapshot
	done chan struct{}
}

type localRequest struct {
	text string
	done chan models.Snapshot
}

// Config настраивает сервис репликации
type Config struct {
	RecoveryWindow time.Duration
}

// New создает сервис репликации
func New(
	cfg Config,
	register *crdt.Register,
	doc document.Adapter,
	backups storage.BackupStorage,
	network Network,
	inbound <-chan transport.Inbound,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RecoveryWindow <= 0 {
		cfg.RecoveryWindow = DefaultRecoveryWindow
	}

	return &Service{
		register:  register,
		doc:       doc,
		backups:   backups,
		network:   network,
		inbound:   inbound,
		logger:    logger.With("component", "replication"),
		window:    cfg.RecoveryWindow,
		restoreCh: make(chan restoreRequest),
		localCh:   make(chan localRequest),
		stopped:   make(chan struct{}),
	}
}

// Clock возвращает часы Лампорта документа
func (s *Service) Clock() *crdt.LamportClock {
	return s.register.Clock()
}

// Seed сдвигает часы до lamport локального бэкапа, чтобы перезапущенный
// узел не помечал правки устаревшими метками.
func (s *Service) Seed(ctx context.Context) {
	snap, err := s.loadLocalBackup(ctx)
	if err != nil || snap == nil {
		return
	}
	s.register.Clock().SetTime(snap.Lamport)
	s.logger.Info("clock seeded from local backup", "lamport", snap.Lamport)
}

// LocalEdit передает правку в цикл Run: там текст получает следующую метку
// часов, записывается в документ и в локальный бэкап. Затем снимок рассылается
// всем пирам; пиры с ошибкой отправки отключаются.
func (s *Service) LocalEdit(ctx context.Context, text string) (models.Snapshot, error) {
	req := localRequest{text: text, done: make(chan models.Snapshot, 1)}

	select {
	case s.localCh <- req:
	case <-s.stopped:
		return models.Snapshot{}, ErrNotRunning
	case <-ctx.Done():
		return models.Snapshot{}, fmt.Errorf("local edit: %w", ctx.Err())
	}

	snap := <-req.done
	s.broadcast(models.NewEditMessage(snap))
	s.logger.Debug("local edit sent", "lamport", snap.Lamport, "fingerprint", crypto.Fingerprint(text))

	return snap, nil
}

// applyLocal выполняется только в Run, поэтому не пересекается с удаленными правками
func (s *Service) applyLocal(ctx context.Context, text string) models.Snapshot {
	snap := s.register.LocalWrite(text)
	s.doc.Replace(text)

	if err := s.backups.SaveBackup(ctx, snap); err != nil {
		s.logger.Warn("failed to save backup", "lamport", snap.Lamport, "error", err)
	}
	return snap
}

// broadcast рассылает msg всем пирам параллельно и ждет все отправки
func (s *Service) broadcast(msg models.Message) {
	conns := s.network.Conns()

	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Add(1)
		go func(c *peer.Conn) {
			defer wg.Done()
			if err := c.Send(msg); err != nil {
				s.logger.Debug("send failed, dropping peer", "peer", c.String(), "error", err)
				s.network.Drop(c)
			}
		}(c)
	}
	wg.Wait()
}

// Run обрабатывает входящие записи, локальные правки и восстановления до
// отмены ctx или закрытия очереди. Это единственный писатель документа.
func (s *Service) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.stopped) })
	defer s.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.localCh:
			req.done <- s.applyLocal(ctx, req.text)
		case req := <-s.restoreCh:
			s.register.Restore(req.snap)
			s.doc.Replace(req.snap.Text)
			close(req.done)
		case in, ok := <-s.inbound:
			if !ok {
				return nil
			}
			s.handle(ctx, in)
		}
	}
}

func (s *Service) handle(ctx context.Context, in transport.Inbound) {
	switch kind := in.Message.Kind(); kind {
	case models.KindEdit:
		snap, _ := in.Message.Snapshot()
		// ответ на backup_request имеет ту же форму, что и правка
		s.deliverBackup(in.Conn, &snap)
		s.applyRemote(in.Conn, snap)

	case models.KindBackupRequest:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.answerBackupRequest(ctx, in.Conn)
		}()

	case models.KindBackupResponse, models.KindEmpty:
		var snap *models.Snapshot
		if v, ok := in.Message.Snapshot(); ok {
			snap = &v
		}
		if !s.deliverBackup(in.Conn, snap) {
			s.logger.Debug("ignoring unsolicited backup response", "peer", in.Conn.String())
		}

	default:
		s.logger.Debug("ignoring unknown record", "peer", in.Conn.String(), "kind", kind.String())
	}
}

func (s *Service) applyRemote(from *peer.Conn, snap models.Snapshot) {
	if !s.register.Apply(snap) {
		s.logger.Debug("ignoring stale edit",
			"peer", from.String(), "lamport", snap.Lamport, "clock", s.register.Clock().Time())
		return
	}

	s.doc.Replace(snap.Text)
	s.logger.Debug("applied remote edit",
		"peer", from.String(), "lamport", snap.Lamport, "fingerprint", crypto.Fingerprint(snap.Text))
}

func (s *Service) answerBackupRequest(ctx context.Context, to *peer.Conn) {
	snap, err := s.loadLocalBackup(ctx)
	if err != nil {
		snap = nil
	}

	if err := to.Send(models.NewBackupResponse(snap)); err != nil {
		s.logger.Warn("failed to send backup", "peer", to.String(), "error", err)
		s.network.Drop(to)
		return
	}
	s.logger.Debug("backup sent", "peer", to.String(), "found", snap != nil)
}

// loadLocalBackup возвращает nil без ошибки, если бэкапа нет
func (s *Service) loadLocalBackup(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.backups.LoadBackup(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrBackupNotFound) {
			return nil, nil
		}
		s.logger.Warn("local backup read error", "error", err)
		return nil, err
	}
	return snap, nil
}

// Recover запрашивает бэкап у каждого пира, ждет ответы в пределах окна
// восстановления, добавляет локальный бэкап и восстанавливает кандидата
// с наибольшим lamport. При ErrNoBackup документ не меняется.
func (s *Service) Recover(ctx context.Context) (models.Snapshot, error) {
	conns := s.network.Conns()

	session, err := s.beginRecovery(conns)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer s.endRecovery()

	s.logger.Info("recovery started", "peers", len(conns))

	for _, c := range conns {
		if err := c.Send(models.NewBackupRequest()); err != nil {
			s.logger.Warn("backup fetch error", "peer", c.String(), "error", err)
			session.forget(c.ID())
			s.network.Drop(c)
		}
	}

	timer := time.NewTimer(s.window)
	defer timer.Stop()

	select {
	case <-session.done:
	case <-timer.C:
		s.logger.Debug("recovery window elapsed", "missing", session.missing())
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	}

	candidates := session.finish()
	if local, err := s.loadLocalBackup(ctx); err == nil && local != nil {
		candidates = append(candidates, *local)
	}

	best, ok := models.Latest(candidates)
	if !ok {
		s.logger.Info("recovery failed: no backup found")
		return models.Snapshot{}, ErrNoBackup
	}

	if err := s.restore(ctx, best); err != nil {
		return models.Snapshot{}, err
	}

	s.logger.Info("recovered document from backup",
		"lamport", best.Lamport, "candidates", len(candidates), "fingerprint", crypto.Fingerprint(best.Text))
	return best, nil
}

// restore передает snap в цикл Run и ждет его применения
func (s *Service) restore(ctx context.Context, snap models.Snapshot) error {
	req := restoreRequest{snap: snap, done: make(chan struct{})}

	select {
	case s.restoreCh <- req:
	case <-s.stopped:
		return ErrNotRunning
	case <-ctx.Done():
		return fmt.Errorf("restore: %w", ctx.Err())
	}

	<-req.done
	return nil
}

func (s *Service) beginRecovery(conns []*peer.Conn) (*recoverySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recovery != nil {
		return nil, ErrRecoveryInProgress
	}
	s.recovery = newRecoverySession(conns)
	return s.recovery, nil
}

func (s *Service) endRecovery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recovery = nil
}

func (s *Service) deliverBackup(from *peer.Conn, snap *models.Snapshot) bool {
	s.mu.Lock()
	session := s.recovery
	s.mu.Unlock()

	if session == nil {
		return false
	}
	return session.deliver(from.ID(), snap)
}
