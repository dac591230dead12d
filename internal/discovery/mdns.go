package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType - тип DNS-SD сервиса, под которым регистрируются узлы
	ServiceType = "_peernote._tcp"
	mdnsDomain  = "local."
	nodeIDKey   = "node_id="
)

// startMDNS регистрирует узел и ищет остальные до завершения ctx
func (s *Service) startMDNS(ctx context.Context) error {
	instance := "peernote-" + shortID(s.cfg.NodeID)
	server, err := zeroconf.Register(instance, ServiceType, mdnsDomain, s.cfg.ServicePort,
		[]string{nodeIDKey + s.cfg.NodeID}, nil)
	if err != nil {
		return fmt.Errorf("register mdns service: %w", err)
	}

	resolver, err := zeroconf.NewResolver()
	if err != nil {
		server.Shutdown()
		return fmt.Errorf("create mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceType, mdnsDomain, entries); err != nil {
		server.Shutdown()
		return fmt.Errorf("browse mdns: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer server.Shutdown()
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				s.handleEntry(entry)
			}
		}
	}()

	s.logger.Info("mdns registered", "instance", instance, "service", ServiceType)
	return nil
}

// handleEntry превращает результат browse в анонс
func (s *Service) handleEntry(entry *zeroconf.ServiceEntry) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return
	}
	if entry.Port <= 0 || entry.Port > 65535 {
		return
	}

	ann := Announcement{TCPPort: entry.Port}
	for _, txt := range entry.Text {
		if id, ok := strings.CutPrefix(txt, nodeIDKey); ok {
			ann.NodeID = id
		}
	}

	var from net.IP
	for _, ip := range entry.AddrIPv4 {
		if ip4 := ip.To4(); ip4 != nil {
			from = ip4
			break
		}
	}
	if from == nil {
		return
	}

	s.handleAnnouncement(ann, from)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "node"
	}
	return id
}
