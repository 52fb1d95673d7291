package oplog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRingNewestFirst(t *testing.T) {
	ring := NewRing(3)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		require.NoError(t, ring.Record(ctx, Entry{Module: "contratos", Action: fmt.Sprintf("a%d", i), Timestamp: base.Add(time.Duration(i) * time.Minute), Success: true}))
	}

	entries, err := ring.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a1", entries[0].Action)
	require.Equal(t, "a0", entries[1].Action)
}

func TestRingEvictsOldest(t *testing.T) {
	ring := NewRing(DefaultCapacity)
	ctx := context.Background()

	for i := 0; i < DefaultCapacity+25; i++ {
		require.NoError(t, ring.Record(ctx, Entry{Action: fmt.Sprintf("op-%d", i)}))
	}

	require.Equal(t, DefaultCapacity, ring.Len())
	entries, err := ring.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, DefaultCapacity)
	require.Equal(t, fmt.Sprintf("op-%d", DefaultCapacity+24), entries[0].Action)
	require.Equal(t, "op-25", entries[len(entries)-1].Action)
}

func TestRingListLimit(t *testing.T) {
	ring := NewRing(10)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, ring.Record(ctx, Entry{Action: fmt.Sprintf("op-%d", i)}))
	}

	entries, err := ring.List(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"op-4", "op-3"}, []string{entries[0].Action, entries[1].Action})
}

func TestRingConcurrentRecord(t *testing.T) {
	ring := NewRing(50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = ring.Record(ctx, Entry{Module: "x"})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 50, ring.Len())
}

func TestNewRingDefaultsCapacity(t *testing.T) {
	require.Equal(t, DefaultCapacity, NewRing(0).Capacity())
}
