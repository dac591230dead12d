package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/replication"
	"github.com/iudanet/peernote/internal/server/handlers"
)

type staticPeers []string

func (s staticPeers) DistinctIPs() []string { return s }

func testDeps() Deps {
	return Deps{
		Version: "test",
		Peers:   staticPeers{"10.0.0.2"},
		Document: &handlers.DocumentSourceMock{
			TextFunc:    func() string { return "note" },
			LamportFunc: func() int64 { return 3 },
		},
		Recoverer: &handlers.RecovererMock{
			RecoverFunc: func(context.Context) (models.Snapshot, error) {
				return models.Snapshot{}, replication.ErrNoBackup
			},
		},
		Targets: func() []handlers.TargetInfo {
			return []handlers.TargetInfo{{IP: "10.0.0.2", Nickname: "10.0.0.2", State: "connected"}}
		},
		History: &handlers.HistorySourceMock{
			HistoryFunc: func(context.Context, int) ([]models.Snapshot, error) {
				return []models.Snapshot{{Text: "note", Lamport: 3}}, nil
			},
		},
	}
}

func TestRouter(t *testing.T) {
	router := NewRouter(testDeps(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK, `"status":"ok"`},
		{http.MethodGet, "/api/v1/peers", http.StatusOK, `"count":1`},
		{http.MethodGet, "/api/v1/peers", http.StatusOK, `"state":"connected"`},
		{http.MethodGet, "/api/v1/backups", http.StatusOK, `"lamport":3`},
		{http.MethodGet, "/api/v1/backups?limit=0", http.StatusBadRequest, `"error":"invalid limit"`},
		{http.MethodGet, "/api/v1/document", http.StatusOK, `"lamport":3`},
		{http.MethodPost, "/api/v1/recover", http.StatusNotFound, `"error":"no backup found"`},
		{http.MethodPost, "/api/v1/peers", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_WithoutHistory(t *testing.T) {
	deps := testDeps()
	deps.History = nil
	router := NewRouter(deps, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/backups", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))

	url := "http://" + srv.Addr().String() + "/api/v1/health"
	resp, err := http.Get(url)
	require.NoError(t, err)
	var health handlers.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "test", health.Version)

	cancel()
	assert.Eventually(t, func() bool {
		_, err := http.Get(url)
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)
}
