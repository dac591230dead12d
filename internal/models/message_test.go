package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Kind(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected MessageKind
	}{
		{name: "edit", raw: `{"text":"hello","lamport":3}`, expected: KindEdit},
		{name: "edit with empty text", raw: `{"text":"","lamport":0}`, expected: KindEdit},
		{name: "backup request", raw: `{"type":"backup_request"}`, expected: KindBackupRequest},
		{name: "backup response", raw: `{"type":"backup_response","text":"t","lamport":4}`, expected: KindBackupResponse},
		{name: "empty object", raw: `{}`, expected: KindEmpty},
		{name: "text without lamport", raw: `{"text":"orphan"}`, expected: KindUnknown},
		{name: "unknown type", raw: `{"type":"ping"}`, expected: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg))
			assert.Equal(t, tt.expected, msg.Kind())
		})
	}
}

func TestMessage_Encoding(t *testing.T) {
	edit, err := json.Marshal(NewEditMessage(Snapshot{Text: "", Lamport: 0}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"","lamport":0}`, string(edit))

	req, err := json.Marshal(NewBackupRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"backup_request"}`, string(req))

	empty, err := json.Marshal(NewBackupResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))

	resp, err := json.Marshal(NewBackupResponse(&Snapshot{Text: "doc", Lamport: 9}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"doc","lamport":9}`, string(resp))
}

func TestMessage_Snapshot(t *testing.T) {
	snap, ok := NewEditMessage(Snapshot{Text: "abc", Lamport: 12}).Snapshot()
	require.True(t, ok)
	assert.Equal(t, Snapshot{Text: "abc", Lamport: 12}, snap)

	_, ok = NewBackupRequest().Snapshot()
	assert.False(t, ok)
}

func TestPeerConfigEntry_DisplayName(t *testing.T) {
	assert.Equal(t, "alice", PeerConfigEntry{IP: "10.0.0.2", Nickname: "alice"}.DisplayName())
	assert.Equal(t, "10.0.0.3", PeerConfigEntry{IP: "10.0.0.3"}.DisplayName())
}
