package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherSyncEmit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	p := NewPublisher(store)

	require.NoError(t, p.Emit(ctx, Event{Subject: "did:air:u1", Action: ActionLogin, Outcome: "success"}))
	require.NoError(t, p.Emit(ctx, Event{Subject: "did:air:u2", Action: ActionLogout, Outcome: "success"}))

	events, err := p.List(ctx, "did:air:u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionLogin, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "missing timestamp is stamped on emit")
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(8))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(ctx, Event{Subject: "did:air:u1", Action: ActionScenarioRun}))
	}
	p.Close()

	events, err := store.ListBySubject(ctx, "did:air:u1")
	require.NoError(t, err)
	assert.Len(t, events, 5)
}
