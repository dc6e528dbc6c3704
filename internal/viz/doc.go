// Package viz is the terminal viewer for a view state registry.
//
// The viewer is a Bubble Tea program:
//
//   - [Model]: writes key input into the registry cells and redraws the
//     traced scene through an effect on the registry snapshot
//   - [Canvas]: Braille-based pixel canvas, one dot per traced pixel
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Play/Pause time
//	HJKL    - Orbit the free camera
//	WASD    - Pan the origin
//	+/-     - Zoom
//	Tab     - Cycle render type
//	M       - Toggle quad view
//	1-7     - Apply a preset
//	B/N     - Save/load bookmarks
//	R       - Reset the view
//	?       - Show help overlay
//
// # Recording
//
// C records every snapshot change and stores the session as a recording.
// G captures the canvas as an animated GIF.
package viz
