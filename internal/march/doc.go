// Package march renders signed-distance scenes on the CPU by sphere
// tracing.
//
// A frame is rendered from a [renderstate.ViewState] snapshot: the layout
// panes come from the resolution and quad-view fields, the camera from
// rotation, origin and zoom, and the shading from the render type:
//
//   - Normal: diffuse lighting of the hit surface
//   - Surfaceless: facing ratio only, no lighting
//   - Convergence: marching steps used, as a fraction of the budget
//   - Distance: distance travelled along the ray, as a fraction of the range
//
// Rows are rendered in parallel; the snapshot is a plain value, so workers
// never touch the reactive graph.
//
//	sc, _ := march.SceneByName("spheres")
//	frame, err := march.Render(ctx, sc, view, march.DefaultOptions())
package march
