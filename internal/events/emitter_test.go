package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(t *testing.T) *TaskRequestEvent {
	t.Helper()
	event, err := NewTaskRequestEvent("blueprint_generation", map[string]string{"user_id": "u1"})
	require.NoError(t, err)
	return event
}

func TestEmitEventNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent(t)))
}

func TestEmitEventDispatchesToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	first := &capturingHandler{}
	second := &capturingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := testEvent(t)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	assert.Equal(t, 1, first.handled)
	assert.Equal(t, 1, second.handled)
	assert.Equal(t, event, first.last)
	assert.Equal(t, event, second.last)
}

func TestEmitEventFailingHandler(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ok := &capturingHandler{}
	failing := &capturingHandler{err: errors.New("handler error")}
	emitter.RegisterHandler(ok)
	emitter.RegisterHandler(failing)

	err := emitter.EmitEvent(context.Background(), testEvent(t))
	require.Error(t, err)
	assert.Equal(t, "handler error", err.Error())

	// A failing handler does not stop delivery to the others.
	assert.Equal(t, 1, ok.handled)
	assert.Equal(t, 1, failing.handled)
}
