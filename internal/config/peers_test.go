package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/peernote/internal/models"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestParsePeers(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []models.PeerConfigEntry
		wantErr bool
	}{
		{
			name: "object form",
			data: `{"peers":[{"ip":"10.0.0.2","nickname":"bob"},{"ip":"10.0.0.3","port":6001}]}`,
			want: []models.PeerConfigEntry{
				{IP: "10.0.0.2", Nickname: "bob"},
				{IP: "10.0.0.3", Port: 6001},
			},
		},
		{
			name: "bare array",
			data: ` [{"ip":"10.0.0.4"}] `,
			want: []models.PeerConfigEntry{{IP: "10.0.0.4"}},
		},
		{name: "empty", data: "  ", wantErr: true},
		{name: "garbage", data: "peers: nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeers([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPeers_MissingFile(t *testing.T) {
	var logs bytes.Buffer
	peers := LoadPeers(filepath.Join(t.TempDir(), "peers.json"), newTestLogger(&logs))

	assert.Empty(t, peers)
	assert.Contains(t, logs.String(), "no peers file")
}

func TestLoadPeers_BrokenFile(t *testing.T) {
	var logs bytes.Buffer
	path := writeFile(t, "peers.json", `{"peers": [`)

	assert.Empty(t, LoadPeers(path, newTestLogger(&logs)))
	assert.Contains(t, logs.String(), "failed to parse peers file")
}

func TestLoadPeers_SkipsInvalidAndDuplicates(t *testing.T) {
	var logs bytes.Buffer
	path := writeFile(t, "peers.json", `{"peers":[
		{"ip":"192.168.1.10","nickname":"alice"},
		{"ip":"not-an-ip"},
		{"ip":"192.168.1.10","nickname":"alice again"},
		{"ip":"192.168.1.11"}
	]}`)

	peers := LoadPeers(path, newTestLogger(&logs))
	assert.Equal(t, []models.PeerConfigEntry{
		{IP: "192.168.1.10", Nickname: "alice"},
		{IP: "192.168.1.11"},
	}, peers)
	assert.Contains(t, logs.String(), "skipping invalid peer entry")
	assert.Contains(t, logs.String(), "skipping duplicate peer entry")
}
