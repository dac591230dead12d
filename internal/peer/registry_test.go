package peer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/peernote/internal/testutil/pipeconn"
)

func newTestConn(t *testing.T, remote string) *Conn {
	t.Helper()
	local, other := pipeconn.New("127.0.0.1:5001", remote)
	t.Cleanup(func() {
		_ = local.Close()
		_ = other.Close()
	})
	return NewConn(local, 0, false)
}

func TestRegistry_AddIdempotent(t *testing.T) {
	reg := NewRegistry()
	c := newTestConn(t, "10.0.0.2:40000")

	assert.True(t, reg.Add(c))
	assert.False(t, reg.Add(c), "second add of the same connection is a no-op")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_DedupByIP(t *testing.T) {
	reg := NewRegistry()
	a := newTestConn(t, "10.0.0.2:40000")
	b := newTestConn(t, "10.0.0.2:40001")
	c := newTestConn(t, "10.0.0.3:40000")

	reg.Add(a)
	reg.Add(b)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 1, reg.Count(), "two connections to one IP count once")

	reg.Add(c)
	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, reg.DistinctIPs())
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewRegistry()
	a := newTestConn(t, "10.0.0.2:40000")
	b := newTestConn(t, "10.0.0.2:40001")
	reg.Add(a)
	reg.Add(b)

	assert.True(t, reg.Remove(a))
	assert.False(t, reg.Remove(a), "removing twice reports false")
	assert.True(t, reg.HasIP("10.0.0.2"), "second connection keeps the IP alive")

	assert.True(t, reg.Remove(b))
	assert.False(t, reg.HasIP("10.0.0.2"))
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_RemoveStaleObject(t *testing.T) {
	reg := NewRegistry()
	old := newTestConn(t, "10.0.0.2:40000")
	fresh := newTestConn(t, "10.0.0.2:40000")

	reg.Add(old)
	reg.Add(fresh) // тот же адрес - новая запись вытесняет старую

	assert.False(t, reg.Remove(old), "stale object must not evict the live one")
	assert.Equal(t, 1, reg.Len())
	assert.Same(t, fresh, reg.Snapshot()[0])
}

func TestRegistry_SnapshotOrdered(t *testing.T) {
	reg := NewRegistry()
	reg.Add(newTestConn(t, "10.0.0.9:1"))
	reg.Add(newTestConn(t, "10.0.0.1:1"))

	snap := reg.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "10.0.0.1:1", snap[0].RemoteAddr())
	assert.Equal(t, "10.0.0.9:1", snap[1].RemoteAddr())
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry()
	conns := make([]*Conn, 50)
	for i := range conns {
		conns[i] = newTestConn(t, JoinHostPort("10.0.1.1", 30000+i))
	}

	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Add(1)
		go func(c *Conn) {
			defer wg.Done()
			reg.Add(c)
			_ = reg.Count()
			_ = reg.Snapshot()
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Len())
	assert.Equal(t, 1, reg.Count())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, HealthNone},
		{1, HealthDegraded},
		{2, HealthDegraded},
		{3, HealthGood},
		{10, HealthGood},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Health(tt.count), "count %d", tt.count)
	}
}
