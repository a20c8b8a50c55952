// Package shutdown runs cleanup hooks when a FitPlan process stops.
//
// Hooks run in reverse registration order, so resources opened first
// (the store) are closed last. Usage:
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("store", func(ctx context.Context) error { return store.Close() })
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	<-ctx.Done()
//	h.Shutdown()
package shutdown
