package ctxhelp

import "context"

// Join returns a context that is canceled as soon as either parent is done,
// carrying the cause of whichever parent finished first. The values of ctx1
// are visible through the joined context.
func Join(ctx1, ctx2 context.Context) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx1)

	stop := context.AfterFunc(ctx2, func() {
		cancel(context.Cause(ctx2))
	})

	return ctx, func(cause error) {
		stop()
		cancel(cause)
	}
}
