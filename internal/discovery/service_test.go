package discovery

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeers map[string]bool

func (f fakePeers) HasIP(ip string) bool { return f[ip] }

type candidate struct {
	ip   string
	port int
}

type recorder struct {
	mu    sync.Mutex
	found []candidate
}

func (r *recorder) add(ip string, port int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found = append(r.found, candidate{ip: ip, port: port})
}

func (r *recorder) list() []candidate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]candidate(nil), r.found...)
}

func newTestService(t *testing.T, peers PeerChecker, rec *recorder, logs *bytes.Buffer) *Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(Config{
		NodeID:        "node-self",
		ServicePort:   5001,
		DiscoveryPort: 5000,
	}, peers, rec.add, logger)
	s.localIPs = func() map[string]struct{} {
		return map[string]struct{}{"192.168.1.5": {}}
	}
	return s
}

func TestHandleDatagram(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		from    string
		peers   fakePeers
		want    []candidate
		wantLog string
	}{
		{
			name: "new peer",
			data: `{"tcp_port":5001,"node_id":"node-other"}`,
			from: "192.168.1.7",
			want: []candidate{{ip: "192.168.1.7", port: 5001}},
		},
		{
			name: "legacy datagram without node id",
			data: `{"tcp_port":6001}`,
			from: "192.168.1.8",
			want: []candidate{{ip: "192.168.1.8", port: 6001}},
		},
		{
			name: "self by node id",
			data: `{"tcp_port":7001,"node_id":"node-self"}`,
			from: "192.168.1.9",
		},
		{
			name: "self by port from local interface",
			data: `{"tcp_port":5001}`,
			from: "192.168.1.5",
		},
		{
			name: "self by port from loopback",
			data: `{"tcp_port":5001,"node_id":"node-self"}`,
			from: "127.0.0.1",
		},
		{
			name: "same port on another host is a peer",
			data: `{"tcp_port":5001}`,
			from: "192.168.1.20",
			want: []candidate{{ip: "192.168.1.20", port: 5001}},
		},
		{
			name: "second instance on this host",
			data: `{"tcp_port":5002,"node_id":"node-other"}`,
			from: "192.168.1.5",
			want: []candidate{{ip: "192.168.1.5", port: 5002}},
		},
		{
			name:  "already connected",
			data:  `{"tcp_port":5001,"node_id":"node-other"}`,
			from:  "192.168.1.7",
			peers: fakePeers{"192.168.1.7": true},
		},
		{
			name:    "malformed json",
			data:    `{"tcp_port":`,
			from:    "192.168.1.7",
			wantLog: "discarding malformed datagram",
		},
		{
			name:    "missing port",
			data:    `{"node_id":"node-other"}`,
			from:    "192.168.1.7",
			wantLog: "without valid tcp_port",
		},
		{
			name:    "wrong port type",
			data:    `{"tcp_port":"5001"}`,
			from:    "192.168.1.7",
			wantLog: "discarding malformed datagram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := &recorder{}
			peers := tt.peers
			if peers == nil {
				peers = fakePeers{}
			}
			s := newTestService(t, peers, rec, &logs)

			s.handleDatagram([]byte(tt.data), net.ParseIP(tt.from))

			assert.Equal(t, tt.want, rec.list())
			if tt.wantLog != "" {
				assert.Contains(t, logs.String(), tt.wantLog)
			}
		})
	}
}

func TestHandleDatagram_SurvivesGarbageSequence(t *testing.T) {
	var logs bytes.Buffer
	rec := &recorder{}
	s := newTestService(t, fakePeers{}, rec, &logs)

	for _, data := range []string{"", "\x00\x01", "[]", "null", `{"tcp_port":-1}`, `{"tcp_port":5003}`} {
		s.handleDatagram([]byte(data), net.ParseIP("10.0.0.3"))
	}

	assert.Equal(t, []candidate{{ip: "10.0.0.3", port: 5003}}, rec.list())
}

func TestService_StartReceivesOverLoopback(t *testing.T) {
	var logs bytes.Buffer
	rec := &recorder{}
	s := newTestService(t, fakePeers{}, rec, &logs)
	s.cfg.DiscoveryPort = 0
	s.targets = func() []string { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	addr, ok := s.Addr().(*net.UDPAddr)
	require.True(t, ok)

	sender, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: addr.Port})
	require.NoError(t, err)
	defer sender.Close()

	_, err = sender.Write([]byte("not json"))
	require.NoError(t, err)
	_, err = sender.Write([]byte(`{"tcp_port":6001,"node_id":"node-other"}`))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(rec.list()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, candidate{ip: "127.0.0.1", port: 6001}, rec.list()[0])

	cancel()
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("discovery goroutines did not stop")
	}
}

func TestDirectedBroadcast(t *testing.T) {
	tests := []struct {
		cidr string
		want string
		ok   bool
	}{
		{cidr: "192.168.1.5/24", want: "192.168.1.255", ok: true},
		{cidr: "10.1.2.3/8", want: "10.255.255.255", ok: true},
		{cidr: "172.16.5.4/20", want: "172.16.15.255", ok: true},
		{cidr: "127.0.0.1/8", ok: false},
		{cidr: "10.0.0.1/32", ok: false},
		{cidr: "fe80::1/64", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			ip, ipnet, err := net.ParseCIDR(tt.cidr)
			require.NoError(t, err)
			ipnet.IP = ip

			got, ok := directedBroadcast(ipnet)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBroadcastAddresses_IncludesLimited(t *testing.T) {
	addrs := BroadcastAddresses()
	require.NotEmpty(t, addrs)
	assert.Equal(t, LimitedBroadcast, addrs[len(addrs)-1])
}
