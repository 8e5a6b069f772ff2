package repositories_test

import (
	"sync"
	"testing"
	"time"

	"chatorder/internal/models"
	"chatorder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_ResolveIsIdentityStable(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	defer store.Close()

	first := store.Resolve("device-1")
	second := store.Resolve("device-1")
	other := store.Resolve("device-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "device-1", first.DeviceID)
	assert.Equal(t, 2, store.Len())
}

func TestMemorySessionStore_ResolveCreatesEmptySession(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	defer store.Close()

	session := store.Resolve("device-1")

	assert.Empty(t, session.CurrentOrder)
	assert.Empty(t, session.History)
	assert.Empty(t, session.Orders)
	assert.Zero(t, session.Total)
	assert.Empty(t, session.Pending)
	assert.Nil(t, session.LatestPending())
}

func TestMemorySessionStore_ConcurrentFirstContact(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	defer store.Close()

	const workers = 32
	results := make([]*models.Session, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = store.Resolve("shared-device")
		}(i)
	}
	close(start)
	wg.Wait()

	for _, s := range results {
		require.Same(t, results[0], s)
	}
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_Remove(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	defer store.Close()

	first := store.Resolve("device-1")
	first.CurrentOrder = append(first.CurrentOrder, models.CartLine{Name: "Bread", Quantity: 1})

	store.Remove("device-1")
	store.Remove("unknown")

	fresh := store.Resolve("device-1")
	assert.NotSame(t, first, fresh)
	assert.Empty(t, fresh.CurrentOrder)
}

func TestMemorySessionStore_SweepEvictsIdleSessions(t *testing.T) {
	store := repositories.NewMemorySessionStore(time.Hour)
	defer store.Close()

	store.Resolve("device-1")
	store.Resolve("device-2")

	assert.Equal(t, 0, store.Sweep(time.Now().Add(30*time.Minute)))
	assert.Equal(t, 2, store.Sweep(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_SweepKeepsSessionsAwaitingPayment(t *testing.T) {
	store := repositories.NewMemorySessionStore(time.Hour)
	defer store.Close()

	waiting := store.Resolve("device-1")
	waiting.AddPending(&models.PendingCheckout{Reference: "ref-1", Total: 1000})
	store.Resolve("device-2")
	busy := store.Resolve("device-3")
	busy.Lock()

	assert.Equal(t, 1, store.Sweep(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 2, store.Len())
	assert.Same(t, waiting, store.Resolve("device-1"))

	busy.Unlock()
	waiting.TakePending("ref-1")
	assert.Equal(t, 2, store.Sweep(time.Now().Add(4*time.Hour)))
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_SweepDisabledWithoutTTL(t *testing.T) {
	store := repositories.NewMemorySessionStore(0)
	defer store.Close()

	store.Resolve("device-1")

	assert.Equal(t, 0, store.Sweep(time.Now().Add(24*365*time.Hour)))
	assert.Equal(t, 1, store.Len())
}
