// Package gui is the raylib window viewer.
//
// Every frame [App] collects mouse and keyboard input, writes it into the
// view state registry as one batch and draws all layout panes from a single
// snapshot read:
//
//	Left drag   - Orbit the free camera
//	Right drag  - Pan the origin
//	Middle drag - Move the quad split point
//	Wheel       - Zoom
//	Tab         - Cycle render type
//	M / F       - Toggle quad view / free camera
//	Space       - Play/Pause time
//	R           - Reset the view
//	H           - Toggle the HUD
package gui
