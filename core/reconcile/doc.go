// Package reconcile keeps the pin registry, the persisted documents, the UI sessions and
// the MQTT broker consistent with each other.
//
// # Architecture
//
// The package consists of three main components:
//
// 1. Registry: the live mapping from pin number to an opened gpio.Driver. It is rebuilt
// from scratch whenever the topology changes and is the only place drivers are opened
// or released.
//
// 2. Engine: the single authority for state changes. UI messages, MQTT commands, HTTP
// requests and input edges are all turned into events handled one at a time by one
// goroutine, including the synchronous file write each change triggers.
//
// 3. Audit: an offline planner comparing the topology with the state document, adapted
// for the reconcile command and the audit endpoint.
//
// # Failure policy
//
// Driver, broker and per-change persistence failures are logged and swallowed: a write
// that fails still updates state, sessions and the broker (optimistic update). Only a
// failed topology save is reported to the caller, and even then the new topology stays
// applied.
//
// # Usage Example
//
//	engine := reconcile.New(reconcile.Options{
//	    Factory:   gpio.NewSimulator(),
//	    Store:     store,
//	    Hub:       hub,
//	    Publisher: bridge,
//	    Logger:    log,
//	})
//	if err := engine.Start(ctx); err != nil { ... }
//	defer engine.Shutdown()
//
//	_ = engine.ApplyOutput(ctx, 17, 1, reconcile.OriginUI)
package reconcile
