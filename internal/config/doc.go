// Package config loads the studio YAML configuration: the initial view
// state and viewer settings, plus named camera presets.
//
// # Example
//
//	view:
//	  zoom: 1
//	  render_type: convergence
//	  quad_view: true
//	viewer:
//	  fps: 60
//	  scene: blob
package config
