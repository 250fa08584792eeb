package ctxhelp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context was not canceled")
	}
}

func TestJoin(t *testing.T) {
	t.Run("first parent", func(t *testing.T) {
		errServer := errors.New("server stopped")
		ctx1, cancel1 := context.WithCancelCause(t.Context())
		ctx, cancel := Join(ctx1, t.Context())
		defer cancel(nil)

		cancel1(errServer)
		waitDone(t, ctx)
		require.ErrorIs(t, context.Cause(ctx), errServer)
	})

	t.Run("second parent", func(t *testing.T) {
		errSession := errors.New("session closed")
		ctx2, cancel2 := context.WithCancelCause(t.Context())
		ctx, cancel := Join(t.Context(), ctx2)
		defer cancel(nil)

		cancel2(errSession)
		waitDone(t, ctx)
		require.ErrorIs(t, context.Cause(ctx), errSession)
	})

	t.Run("cancel func", func(t *testing.T) {
		ctx, cancel := Join(t.Context(), t.Context())
		cancel(nil)
		waitDone(t, ctx)
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
