package crdt

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLamportClock(t *testing.T) {
	clock := NewLamportClock()

	require.NotNil(t, clock)
	assert.Equal(t, int64(0), clock.Time(), "Initial counter should be 0")
	assert.NotEmpty(t, clock.NodeID(), "NodeID should not be empty")

	other := NewLamportClock()
	assert.NotEqual(t, clock.NodeID(), other.NodeID(), "NodeIDs should be unique")

	fixed := NewLamportClockWithNodeID("node-a")
	assert.Equal(t, "node-a", fixed.NodeID())
}

func TestLamportClock_Increment(t *testing.T) {
	clock := NewLamportClock()

	for want := int64(1); want <= 5; want++ {
		assert.Equal(t, want, clock.Increment())
		assert.Equal(t, want, clock.Time())
	}
}

func TestLamportClock_Update(t *testing.T) {
	tests := []struct {
		name            string
		localCounter    int64
		remoteTimestamp int64
		expectedResult  int64
	}{
		{
			name:            "remote timestamp greater than local",
			localCounter:    5,
			remoteTimestamp: 10,
			expectedResult:  11, // max(5, 10) + 1
		},
		{
			name:            "remote timestamp less than local",
			localCounter:    15,
			remoteTimestamp: 10,
			expectedResult:  16, // max(15, 10) + 1
		},
		{
			name:            "remote timestamp equal to local",
			localCounter:    10,
			remoteTimestamp: 10,
			expectedResult:  11,
		},
		{
			name:            "both are zero",
			localCounter:    0,
			remoteTimestamp: 0,
			expectedResult:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewLamportClock()
			clock.SetTime(tt.localCounter)

			result := clock.Update(tt.remoteTimestamp)

			assert.Equal(t, tt.expectedResult, result)
			assert.Equal(t, tt.expectedResult, clock.Time())
		})
	}
}

func TestLamportClock_UpdateIfNewer(t *testing.T) {
	tests := []struct {
		name         string
		local        int64
		remote       int64
		wantTime     int64
		wantAccepted bool
	}{
		{name: "older remote is rejected", local: 5, remote: 3, wantTime: 5, wantAccepted: false},
		{name: "equal remote is rejected", local: 5, remote: 5, wantTime: 5, wantAccepted: false},
		{name: "newer remote is accepted", local: 5, remote: 9, wantTime: 10, wantAccepted: true},
		{name: "first remote on fresh clock", local: 0, remote: 1, wantTime: 2, wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewLamportClock()
			clock.SetTime(tt.local)

			got, accepted := clock.UpdateIfNewer(tt.remote)

			assert.Equal(t, tt.wantAccepted, accepted)
			assert.Equal(t, tt.wantTime, got)
			assert.Equal(t, tt.wantTime, clock.Time())
		})
	}
}

// Любая последовательность Increment/Update строго увеличивает счетчик
func TestLamportClock_Monotonicity(t *testing.T) {
	clock := NewLamportClock()
	rng := rand.New(rand.NewSource(42))

	previous := clock.Time()
	for i := 0; i < 1000; i++ {
		var current int64
		if rng.Intn(2) == 0 {
			current = clock.Increment()
		} else {
			current = clock.Update(rng.Int63n(2000))
		}

		require.Greater(t, current, previous, "step %d must strictly increase", i)
		previous = current
	}
}

func TestLamportClock_SetTime(t *testing.T) {
	clock := NewLamportClock()

	clock.SetTime(42)
	assert.Equal(t, int64(42), clock.Time())

	clock.SetTime(-1)
	assert.Equal(t, int64(42), clock.Time(), "negative values are ignored")

	assert.Equal(t, int64(43), clock.Increment())
}

func TestLamportClock_ConcurrentIncrement(t *testing.T) {
	clock := NewLamportClock()
	iterations := 1000
	goroutines := 10

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				clock.Increment()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(goroutines*iterations), clock.Time())
}

func BenchmarkLamportClock_Increment(b *testing.B) {
	clock := NewLamportClock()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		clock.Increment()
	}
}

func BenchmarkLamportClock_UpdateIfNewer(b *testing.B) {
	clock := NewLamportClock()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		clock.UpdateIfNewer(int64(i))
	}
}
