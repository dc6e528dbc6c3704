// Package renderstate defines the reactive view state of the studio
// viewport: playback time, camera rotation and origin, zoom, render mode,
// quad-split view and output resolution.
//
// Every field lives in its own [signal.Signal] so UI bindings can observe
// single fields. The aggregate [ViewState] is a memo over those cells and is
// what the renderer consumes once per frame:
//
//	rt := signal.NewRuntime()
//	sigs := renderstate.DefaultSignals(rt)
//	snapshot := renderstate.AccessAll(rt, renderstate.GetAll(sigs))
//	renderstate.SetAll(sigs, bookmark) // one notification for all fields
//	frame := snapshot.Get()
package renderstate
