package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shorturl-preview/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts every consumer", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		created, accessed := &mockRunnable{}, &mockRunnable{}

		group.Add(created, accessed)

		require.NoError(t, group.Start(context.Background()))
		assert.Equal(t, 2, group.Len())
		assert.True(t, created.started)
		assert.True(t, accessed.started)
	})

	t.Run("stops started consumers when one fails", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{startErr: errors.New("subscribe failed")}
		third := &mockRunnable{}

		group.Add(first, second, third)

		err := group.Start(context.Background())

		require.ErrorContains(t, err, "subscribe failed")
		assert.True(t, first.shutdown)
		assert.False(t, second.started)
		assert.False(t, third.started)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops consumers and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer := &mockRunnable{}

		group.Add(consumer)
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())
		assert.True(t, consumer.shutdown)
		assert.True(t, sub.closed)
	})

	t.Run("joins every shutdown error", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		errCreated := errors.New("created consumer stuck")
		errAccessed := errors.New("accessed consumer stuck")
		created := &mockRunnable{shutdownErr: errCreated}
		accessed := &mockRunnable{shutdownErr: errAccessed}

		group.Add(created, accessed)

		err := group.Shutdown()

		require.ErrorIs(t, err, errCreated)
		require.ErrorIs(t, err, errAccessed)
		assert.True(t, accessed.shutdown)
	})
}
