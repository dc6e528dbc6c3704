// Package camera turns a view-state snapshot into viewing geometry: the
// orbit camera, the quad-view pane layout and the 2D plane mapping.
package camera
