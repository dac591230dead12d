package discovery

import (
	"bytes"
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
)

func TestHandleEntry(t *testing.T) {
	entry := func(port int, txt []string, ips ...string) *zeroconf.ServiceEntry {
		e := zeroconf.NewServiceEntry("peernote-x", ServiceType, mdnsDomain)
		e.Port = port
		e.Text = txt
		for _, ip := range ips {
			e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP(ip))
		}
		return e
	}

	tests := []struct {
		name  string
		entry *zeroconf.ServiceEntry
		peers fakePeers
		want  []candidate
	}{
		{
			name:  "new peer",
			entry: entry(5001, []string{"node_id=node-other"}, "192.168.1.7"),
			want:  []candidate{{ip: "192.168.1.7", port: 5001}},
		},
		{
			name:  "own node id",
			entry: entry(5002, []string{"node_id=node-self"}, "192.168.1.7"),
		},
		{
			name:  "own port from local address",
			entry: entry(5001, nil, "192.168.1.5"),
		},
		{
			name:  "already connected",
			entry: entry(5001, nil, "192.168.1.7"),
			peers: fakePeers{"192.168.1.7": true},
		},
		{
			name:  "no address",
			entry: entry(5001, nil),
		},
		{
			name:  "bad port",
			entry: entry(0, nil, "192.168.1.7"),
		},
		{
			name: "nil entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := &recorder{}
			s := newTestService(t, tt.peers, rec, &logs)

			s.handleEntry(tt.entry)

			if tt.want == nil {
				assert.Empty(t, rec.list())
				return
			}
			assert.Equal(t, tt.want, rec.list())
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "node", shortID(""))
}
