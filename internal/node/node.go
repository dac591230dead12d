// Package node связывает хранилище, транспорт, discovery, репликацию и
// status endpoint в один работающий пир.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/peernote/internal/config"
	"github.com/iudanet/peernote/internal/crdt"
	"github.com/iudanet/peernote/internal/discovery"
	"github.com/iudanet/peernote/internal/document"
	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/peer"
	"github.com/iudanet/peernote/internal/replication"
	"github.com/iudanet/peernote/internal/server"
	"github.com/iudanet/peernote/internal/server/handlers"
	"github.com/iudanet/peernote/internal/storage"
	"github.com/iudanet/peernote/internal/transport"
)

// Options - параметры New помимо конфигурации
type Options struct {
	Version string
	Peers   []models.PeerConfigEntry
	// OnStatus получает каждое подключение и отключение пира
	OnStatus func(transport.StatusEvent)
	// Backups заменяет бэкенд, выбранный в конфигурации
	Backups storage.BackupStorage
}

// Node - один работающий пир
type Node struct {
	cfg    config.Config
	logger *slog.Logger

	doc         *document.Buffer
	backups     storage.BackupStorage
	register    *crdt.Register
	manager     *transport.Manager
	replication *replication.Service
	discovery   *discovery.Service
	status      *server.Server

	configured int

	group   errgroup.Group
	started bool
}

// New создает все компоненты. До Start сеть не используется.
func New(ctx context.Context, cfg config.Config, opts Options, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backups := opts.Backups
	if backups == nil {
		var err error
		backups, err = OpenStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	clock := newClock(ctx, backups, logger)
	register := crdt.NewRegister(clock)
	doc := document.NewBuffer("")
	registry := peer.NewRegistry()

	manager := transport.New(transport.Config{
		ServicePort: cfg.ServicePort,
		Backoff: transport.BackoffConfig{
			InitialDelay: cfg.Backoff.Initial,
			Multiplier:   cfg.Backoff.Multiplier,
			MaxDelay:     cfg.Backoff.Max,
		},
		Peers:    opts.Peers,
		OnStatus: opts.OnStatus,
	}, registry, logger)

	repl := replication.New(
		replication.Config{RecoveryWindow: cfg.RecoveryWindow},
		register, doc, backups, manager, manager.Inbound(), logger,
	)

	disc := discovery.New(discovery.Config{
		NodeID:        clock.NodeID(),
		ServicePort:   cfg.ServicePort,
		DiscoveryPort: cfg.DiscoveryPort,
		Interval:      cfg.BroadcastInterval,
		MDNS:          cfg.MDNS,
	}, registry, manager.Discovered, logger)

	n := &Node{
		cfg:         cfg,
		logger:      logger.With("node_id", clock.NodeID()),
		doc:         doc,
		backups:     backups,
		register:    register,
		manager:     manager,
		replication: repl,
		discovery:   disc,
		configured:  len(opts.Peers),
	}

	if cfg.Status.Addr != "" {
		deps := server.Deps{
			Version:   opts.Version,
			Peers:     registry,
			Nickname:  manager.Nickname,
			Targets:   func() []handlers.TargetInfo { return connectionTargets(manager) },
			Document:  documentSource{doc: doc, clock: clock},
			Recoverer: repl,
		}
		if history, ok := backups.(storage.HistoryStorage); ok {
			deps.History = history
		}
		n.status = server.New(cfg.Status.Addr, deps, logger)
	}

	return n, nil
}

// Document возвращает буфер общего документа
func (n *Node) Document() *document.Buffer {
	return n.doc
}

// Peers возвращает реестр живых соединений
func (n *Node) Peers() *peer.Registry {
	return n.manager.Registry()
}

// Nickname возвращает настроенный никнейм для ip
func (n *Node) Nickname(ip string) string {
	return n.manager.Nickname(ip)
}

// Recover запрашивает бэкап у всех пиров и восстанавливает самый новый
func (n *Node) Recover(ctx context.Context) (models.Snapshot, error) {
	return n.replication.Recover(ctx)
}

// Manager возвращает менеджер соединений
func (n *Node) Manager() *transport.Manager {
	return n.manager
}

// Discovery возвращает discovery сервис
func (n *Node) Discovery() *discovery.Service {
	return n.discovery
}

// Status возвращает status сервер, nil если он отключен
func (n *Node) Status() *server.Server {
	return n.status
}

// Start запускает все компоненты. Ошибка привязки сервисного порта фатальна,
// discovery и status endpoint только логируют свои ошибки.
func (n *Node) Start(ctx context.Context) error {
	if n.started {
		return errors.New("node already started")
	}
	n.started = true

	n.replication.Seed(ctx)

	if err := n.manager.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	n.doc.OnLocalEdit(func(text string) {
		snap, err := n.replication.LocalEdit(ctx, text)
		if err != nil {
			n.logger.Warn("local edit not replicated", "error", err)
			return
		}
		n.logger.Debug("local edit", "lamport", snap.Lamport)
	})

	n.group.Go(func() error {
		if err := n.replication.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("replication: %w", err)
		}
		return nil
	})

	if err := n.discovery.Start(ctx); err != nil {
		n.logger.Error("discovery disabled", "error", err)
	} else {
		n.group.Go(func() error {
			n.discovery.Wait()
			return nil
		})
	}

	if n.status != nil {
		if err := n.status.Start(ctx); err != nil {
			n.logger.Error("status endpoint disabled", "error", err)
		}
	}

	n.logger.Info("node started",
		"service_port", n.cfg.ServicePort,
		"discovery_port", n.cfg.DiscoveryPort,
		"configured_peers", n.configured,
	)
	return nil
}

// Wait блокируется до отмены ctx, переданного в Start, и остановки всех
// компонентов, затем закрывает хранилище.
func (n *Node) Wait() error {
	n.manager.Wait()
	err := n.group.Wait()
	return errors.Join(err, n.Close())
}

// Close освобождает хранилище
func (n *Node) Close() error {
	if err := n.backups.Close(); err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// documentSource отдает документ и его часы status API
type documentSource struct {
	doc   document.Adapter
	clock *crdt.LamportClock
}

func (d documentSource) Text() string {
	return d.doc.Text()
}

func (d documentSource) Lamport() int64 {
	return d.clock.Time()
}

// connectionTargets перечисляет адреса менеджера с их состоянием
func connectionTargets(m *transport.Manager) []handlers.TargetInfo {
	states := m.States()
	targets := make([]handlers.TargetInfo, 0, len(states))
	for _, ip := range m.Targets() {
		targets = append(targets, handlers.TargetInfo{
			IP:       ip,
			Nickname: m.Nickname(ip),
			State:    states[ip].String(),
		})
	}
	return targets
}
