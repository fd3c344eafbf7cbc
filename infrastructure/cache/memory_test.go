package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Stop()

	require.NoError(t, m.Set(ctx, "k", "v", time.Hour))

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemory_MissingKey(t *testing.T) {
	m := NewMemory(0)
	defer m.Stop()

	_, ok := m.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestMemory_ExpiredEntryBehavesAsAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Stop()

	require.NoError(t, m.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)

	// The expired read also dropped the entry.
	assert.Equal(t, 0, m.Len())
}

func TestMemory_OverwriteRefreshesValueAndExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Stop()

	require.NoError(t, m.Set(ctx, "k", "old", time.Millisecond))
	require.NoError(t, m.Set(ctx, "k", "new", time.Hour))
	time.Sleep(5 * time.Millisecond)

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Stop()

	require.NoError(t, m.Set(ctx, "k", "v", time.Hour))
	require.NoError(t, m.Delete(ctx, "k"))

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_SweeperDropsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(5 * time.Millisecond)
	defer m.Stop()

	require.NoError(t, m.Set(ctx, "short", "v", time.Millisecond))
	require.NoError(t, m.Set(ctx, "long", "v", time.Hour))

	assert.Eventually(t, func() bool {
		return m.Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, key, n, time.Hour)
				m.Get(ctx, key)
				if j%10 == 0 {
					_ = m.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}
