// Package discovery анонсирует узел в локальной сети через UDP broadcast
// (и опционально mDNS) и сообщает об обнаруженных пирах.
//
// Собой считается анонс с тем же node_id либо с нашим сервисным портом с
// локального адреса. Тот же порт с чужого адреса считается пиром, даже если
// это наш внешний адрес, не видимый среди интерфейсов.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultInterval - пауза между двумя анонсами
	DefaultInterval = 3 * time.Second

	maxDatagramSize = 1024
)

// Announcement - содержимое discovery датаграммы
type Announcement struct {
	TCPPort int    `json:"tcp_port"`
	NodeID  string `json:"node_id,omitempty"`
}

// PeerChecker сообщает, есть ли у IP живое соединение
type PeerChecker interface {
	HasIP(ip string) bool
}

// CandidateFunc получает нового обнаруженного пира. Не должна блокироваться.
type CandidateFunc func(ip string, port int)

// Config настраивает discovery сервис
type Config struct {
	NodeID        string
	ServicePort   int
	DiscoveryPort int
	Interval      time.Duration
	// MDNS дополнительно анонсирует и ищет узлы через multicast DNS
	MDNS bool
}

// Service запускает broadcaster и listener на одном UDP сокете
type Service struct {
	cfg         Config
	peers       PeerChecker
	onCandidate CandidateFunc
	logger      *slog.Logger

	// localIPs возвращает адреса локальных интерфейсов; подменяется в тестах
	localIPs func() map[string]struct{}
	targets  func() []string

	conn net.PacketConn
	wg   sync.WaitGroup
}

// New создает discovery сервис. Анонсы начинаются после Start.
func New(cfg Config, peers PeerChecker, onCandidate CandidateFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Service{
		cfg:         cfg,
		peers:       peers,
		onCandidate: onCandidate,
		logger:      logger.With("component", "discovery"),
		localIPs:    interfaceIPs,
		targets:     BroadcastAddresses,
	}
}

// Start открывает discovery сокет и запускает broadcaster и listener.
// Оба останавливаются при отмене ctx.
func (s *Service) Start(ctx context.Context) error {
	lc := net.ListenConfig{Control: control}
	conn, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.DiscoveryPort)))
	if err != nil {
		return fmt.Errorf("listen discovery port %d: %w", s.cfg.DiscoveryPort, err)
	}
	s.conn = conn

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		s.cfg.DiscoveryPort = addr.Port
	}

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		<-ctx.Done()
		conn.Close() //nolint:errcheck
	}()
	go func() {
		defer s.wg.Done()
		s.broadcastLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.listenLoop(ctx)
	}()

	if s.cfg.MDNS {
		if err := s.startMDNS(ctx); err != nil {
			s.logger.Warn("mdns disabled", "error", err)
		}
	}

	s.logger.Info("discovery started", "port", s.cfg.DiscoveryPort, "interval", s.cfg.Interval)
	return nil
}

// Addr возвращает адрес сокета, nil до Start
func (s *Service) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Wait блокируется до выхода всех горутин discovery
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	payload, err := json.Marshal(Announcement{TCPPort: s.cfg.ServicePort, NodeID: s.cfg.NodeID})
	if err != nil {
		s.logger.Error("failed to marshal announcement", "error", err)
		return
	}

	for {
		s.announce(payload)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) announce(payload []byte) {
	sent := 0
	for _, target := range s.targets() {
		addr := &net.UDPAddr{IP: net.ParseIP(target), Port: s.cfg.DiscoveryPort}
		if _, err := s.conn.WriteTo(payload, addr); err != nil {
			s.logger.Debug("failed to send announcement", "target", addr.String(), "error", err)
			continue
		}
		sent++
	}

	if sent == 0 {
		s.logger.Debug("announcement not delivered to any broadcast address")
	}
}

func (s *Service) listenLoop(ctx context.Context) {
	buf := make([]byte, maxDatagramSize)

	for {
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Debug("discovery read failed", "error", err)
			continue
		}

		udpAddr, ok := from.(*net.UDPAddr)
		if !ok {
			continue
		}
		s.handleDatagram(buf[:n], udpAddr.IP)
	}
}

// handleDatagram разбирает датаграмму и сообщает об отправителе, если это новый пир
func (s *Service) handleDatagram(data []byte, from net.IP) {
	var ann Announcement
	if err := json.Unmarshal(data, &ann); err != nil {
		s.logger.Debug("discarding malformed datagram", "from", from.String(), "error", err)
		return
	}
	if ann.TCPPort <= 0 || ann.TCPPort > 65535 {
		s.logger.Debug("discarding datagram without valid tcp_port", "from", from.String(), "port", ann.TCPPort)
		return
	}

	s.handleAnnouncement(ann, from)
}

// handleAnnouncement сообщает об отправителе, если это не мы и он еще не подключен
func (s *Service) handleAnnouncement(ann Announcement, from net.IP) {
	if s.isSelf(ann, from) {
		return
	}

	ip := from.String()
	if s.peers != nil && s.peers.HasIP(ip) {
		return
	}

	s.logger.Debug("peer discovered", "ip", ip, "port", ann.TCPPort, "node_id", ann.NodeID)
	if s.onCandidate != nil {
		s.onCandidate(ip, ann.TCPPort)
	}
}

// isSelf: совпадает node_id, либо тот же сервисный порт с локального адреса
func (s *Service) isSelf(ann Announcement, from net.IP) bool {
	if ann.NodeID != "" && ann.NodeID == s.cfg.NodeID {
		return true
	}
	if ann.TCPPort != s.cfg.ServicePort {
		return false
	}
	if from.IsLoopback() {
		return true
	}
	_, local := s.localIPs()[from.String()]
	return local
}

func interfaceIPs() map[string]struct{} {
	ips := make(map[string]struct{})

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ips
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			ips[ipnet.IP.String()] = struct{}{}
		}
	}
	return ips
}
