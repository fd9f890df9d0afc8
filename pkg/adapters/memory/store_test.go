package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/maturity/pkg/adapters/memory"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore(
		memory.WithTTL(time.Minute),
		memory.WithClock(func() time.Time { return now }),
	)

	require.NoError(t, store.Save(ctx, "s1", domain.NewState("s1", "q1")))

	// 1. Still alive inside the window
	now = now.Add(30 * time.Second)
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	// 2. Expired after the window
	now = now.Add(time.Minute)
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
