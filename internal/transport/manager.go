// Package transport управляет потоками пиров: accept цикл, исходящие
// подключения с backoff и по читателю на соединение с общей входящей очередью.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/peer"
	"github.com/iudanet/peernote/internal/wire"
)

// ErrManagerClosed возвращается после остановки менеджера или если он не был запущен
var ErrManagerClosed = errors.New("connection manager closed")

const (
	DefaultDialTimeout   = 5 * time.Second
	DefaultInboundBuffer = 256
	readBufferSize       = 4096
)

// Inbound - запись, полученная от пира
type Inbound struct {
	Conn    *peer.Conn
	Message models.Message
}

// DialFunc открывает исходящий поток
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Config настраивает менеджер соединений
type Config struct {
	ListenHost    string
	ServicePort   int
	Backoff       BackoffConfig
	DialTimeout   time.Duration
	InboundBuffer int
	// Peers - статически настроенные цели, переподключение бесконечно
	Peers []models.PeerConfigEntry
	// OnStatus вызывается синхронно на каждое подключение и отключение
	OnStatus func(StatusEvent)
}

// Manager владеет всеми потоками пиров
type Manager struct {
	cfg      Config
	registry *peer.Registry
	logger   *slog.Logger

	dial  DialFunc
	sleep func(ctx context.Context, d time.Duration) error

	configured map[string]models.PeerConfigEntry
	inbound    chan Inbound

	mu       sync.Mutex
	ctx      context.Context
	listener net.Listener
	closed   bool
	states   map[string]State
	loops    map[string]struct{}
	pending  map[string]struct{}

	wg sync.WaitGroup
}

// New создает менеджер соединений, перед использованием нужен Start или Listen
func New(cfg Config, registry *peer.Registry, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.InboundBuffer <= 0 {
		cfg.InboundBuffer = DefaultInboundBuffer
	}
	if cfg.Backoff.InitialDelay <= 0 {
		cfg.Backoff = DefaultBackoffConfig()
	}

	configured := make(map[string]models.PeerConfigEntry, len(cfg.Peers))
	for _, p := range cfg.Peers {
		configured[p.IP] = p
	}

	dialer := &net.Dialer{}
	return &Manager{
		cfg:        cfg,
		registry:   registry,
		logger:     logger.With("component", "transport"),
		dial:       dialer.DialContext,
		sleep:      sleepContext,
		configured: configured,
		inbound:    make(chan Inbound, cfg.InboundBuffer),
		states:     make(map[string]State),
		loops:      make(map[string]struct{}),
		pending:    make(map[string]struct{}),
	}
}

// Inbound возвращает очередь записей от всех пиров
func (m *Manager) Inbound() <-chan Inbound {
	return m.inbound
}

// Registry возвращает реестр живых соединений
func (m *Manager) Registry() *peer.Registry {
	return m.registry
}

// Conns возвращает снимок живых соединений
func (m *Manager) Conns() []*peer.Conn {
	return m.registry.Snapshot()
}

// Start слушает пиров и запускает цикл переподключения для каждого настроенного пира
func (m *Manager) Start(ctx context.Context) error {
	if err := m.Listen(ctx); err != nil {
		return err
	}

	for _, entry := range m.cfg.Peers {
		port := entry.Port
		if port == 0 {
			port = m.cfg.ServicePort
		}
		ip := entry.IP
		m.spawn(func() {
			if err := m.ConnectWithBackoff(ctx, ip, port); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Debug("reconnect loop stopped", "ip", ip, "error", err)
			}
		})
	}

	return nil
}

// Listen открывает сервисный порт и запускает accept цикл. Отмена ctx
// закрывает листенер и все соединения.
func (m *Manager) Listen(ctx context.Context) error {
	m.mu.Lock()
	if m.ctx != nil {
		m.mu.Unlock()
		return fmt.Errorf("listen: already started")
	}
	m.ctx = ctx
	m.mu.Unlock()

	var lc net.ListenConfig
	addr := net.JoinHostPort(m.cfg.ListenHost, strconv.Itoa(m.cfg.ServicePort))
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	m.mu.Lock()
	m.listener = ln
	m.mu.Unlock()

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.shutdownOnDone(ctx)
	}()
	go func() {
		defer m.wg.Done()
		m.acceptLoop(ctx, ln)
	}()

	m.logger.Info("listening for peers", "addr", ln.Addr().String())
	return nil
}

// Addr возвращает адрес листенера, nil до Listen
func (m *Manager) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

// Wait блокируется до выхода всех горутин менеджера
func (m *Manager) Wait() {
	m.wg.Wait()
}

// States возвращает копию состояний целей по IP
func (m *Manager) States() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]State, len(m.states))
	for ip, st := range m.states {
		out[ip] = st
	}
	return out
}

// Targets возвращает отсортированные IP с известным состоянием
func (m *Manager) Targets() []string {
	states := m.States()
	ips := make([]string, 0, len(states))
	for ip := range states {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}

// Nickname возвращает настроенный никнейм ip или сам ip
func (m *Manager) Nickname(ip string) string {
	if entry, ok := m.configured[ip]; ok {
		return entry.DisplayName()
	}
	return ip
}

// IsConfigured сообщает, входит ли ip в статический список пиров
func (m *Manager) IsConfigured(ip string) bool {
	_, ok := m.configured[ip]
	return ok
}

// Connect делает одну попытку подключиться к ip:port
func (m *Manager) Connect(ctx context.Context, ip string, port int) error {
	root := m.rootContext()
	if root == nil || root.Err() != nil {
		return ErrManagerClosed
	}

	m.setState(ip, StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.DialTimeout)
	defer cancel()

	nc, err := m.dial(dialCtx, "tcp", peer.JoinHostPort(ip, port))
	if err != nil {
		m.markDisconnected(ip)
		return fmt.Errorf("connect %s: %w", peer.JoinHostPort(ip, port), err)
	}

	if !m.attach(root, peer.NewConn(nc, port, true)) {
		return ErrManagerClosed
	}
	return nil
}

// ConnectWithBackoff повторяет подключение к ip:port до успеха или отмены ctx.
// На один IP работает один цикл, повторный вызов сразу возвращает nil.
func (m *Manager) ConnectWithBackoff(ctx context.Context, ip string, port int) error {
	if !m.claim(m.loops, ip) {
		return nil
	}
	defer m.release(m.loops, ip)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.registry.HasIP(ip) {
			return nil
		}

		err := m.Connect(ctx, ip, port)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrManagerClosed) {
			return err
		}

		delay := NextBackoffDelay(m.cfg.Backoff, attempt)
		m.logger.Info("backoff: failed to connect, retrying",
			"ip", ip, "port", port, "attempt", attempt, "delay", delay, "error", err)

		if err := m.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Discovered делает одну асинхронную попытку подключиться к пиру из discovery.
// Для настроенных пиров вместо этого работает цикл переподключения.
func (m *Manager) Discovered(ip string, port int) {
	root := m.rootContext()
	if root == nil || root.Err() != nil {
		return
	}
	if m.registry.HasIP(ip) {
		return
	}

	if m.IsConfigured(ip) {
		m.spawn(func() {
			_ = m.ConnectWithBackoff(root, ip, port)
		})
		return
	}

	if !m.claim(m.pending, ip) {
		return
	}
	spawned := m.spawn(func() {
		defer m.release(m.pending, ip)
		if err := m.Connect(root, ip, port); err != nil {
			m.logger.Debug("discovered peer unreachable", "ip", ip, "port", port, "error", err)
		}
	})
	if !spawned {
		m.release(m.pending, ip)
	}
}

// Drop закрывает соединение, отправка в которое не удалась. Удаляет его горутина-читатель.
func (m *Manager) Drop(c *peer.Conn) {
	if err := c.Close(); err != nil {
		m.logger.Debug("close failed", "peer", c.String(), "error", err)
	}
}

func (m *Manager) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			m.logger.Warn("accept failed", "error", err)
			continue
		}

		m.attach(ctx, peer.NewConn(nc, 0, false))
	}
}

// attach регистрирует c и запускает его читателя
func (m *Manager) attach(ctx context.Context, c *peer.Conn) bool {
	m.registry.Add(c)
	m.setState(c.IP(), StateConnected)

	started := m.spawn(func() {
		m.readLoop(ctx, c)
	})
	if !started {
		m.registry.Remove(c)
		c.Close() //nolint:errcheck
		return false
	}

	m.logger.Debug("peer attached", "peer", c.String(), "outbound", c.Outbound())
	m.emit(c.IP(), true)
	return true
}

func (m *Manager) readLoop(ctx context.Context, c *peer.Conn) {
	dec := wire.NewDecoder(m.logger.With("peer", c.RemoteAddr()))
	buf := make([]byte, readBufferSize)

	var readErr error
	for readErr == nil {
		var n int
		n, readErr = c.Read(buf)
		if n == 0 {
			continue
		}

		for _, msg := range dec.Feed(buf[:n]) {
			select {
			case m.inbound <- Inbound{Conn: c, Message: msg}:
			case <-ctx.Done():
				m.detach(ctx, c, ctx.Err())
				return
			}
		}
	}

	m.detach(ctx, c, readErr)
}

// detach - единственный путь удаления соединения
func (m *Manager) detach(ctx context.Context, c *peer.Conn, cause error) {
	if !m.registry.Remove(c) {
		c.Close() //nolint:errcheck
		return
	}
	c.Close() //nolint:errcheck

	ip := c.IP()
	m.markDisconnected(ip)
	m.logger.Debug("peer detached", "peer", c.String(), "cause", cause)
	m.emit(ip, false)

	if ctx.Err() != nil || !m.IsConfigured(ip) || m.registry.HasIP(ip) {
		return
	}

	entry := m.configured[ip]
	port := entry.Port
	if port == 0 {
		port = m.cfg.ServicePort
	}
	m.spawn(func() {
		_ = m.ConnectWithBackoff(ctx, ip, port)
	})
}

func (m *Manager) shutdownOnDone(ctx context.Context) {
	<-ctx.Done()

	m.mu.Lock()
	m.closed = true
	ln := m.listener
	m.mu.Unlock()

	if ln != nil {
		ln.Close() //nolint:errcheck
	}
	for _, c := range m.registry.Snapshot() {
		c.Close() //nolint:errcheck
	}
	m.logger.Info("connection manager stopped")
}

// spawn запускает fn в отслеживаемой горутине, если менеджер не закрыт
func (m *Manager) spawn(fn func()) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		fn()
	}()
	return true
}

func (m *Manager) emit(ip string, joined bool) {
	event := StatusEvent{
		IP:     ip,
		Joined: joined,
		Peers:  m.registry.Count(),
	}
	if entry, ok := m.configured[ip]; ok {
		event.Nickname = entry.Nickname
	}

	m.logger.Info(event.String())
	if m.cfg.OnStatus != nil {
		m.cfg.OnStatus(event)
	}
}

func (m *Manager) rootContext() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx
}

func (m *Manager) setState(ip string, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[ip] = st
}

// markDisconnected оставляет Connected, пока жив другой поток к ip
func (m *Manager) markDisconnected(ip string) {
	st := StateDisconnected
	if m.registry.HasIP(ip) {
		st = StateConnected
	}
	m.setState(ip, st)
}

func (m *Manager) claim(set map[string]struct{}, ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := set[ip]; busy {
		return false
	}
	set[ip] = struct{}{}
	return true
}

func (m *Manager) release(set map[string]struct{}, ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(set, ip)
}
