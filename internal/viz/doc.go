// Package viz renders a ball world in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live viewer, stepping a simulator once per frame
//   - [Picker]: preset menu that hands over to the live viewer
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Camera]: orbiting perspective camera with spring-eased zoom
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R C N   - Reset, clear, new ball
//	2 8     - Gravity down/up
//	4 6     - Friction down/up
//	A D     - Elasticity down/up
//	Q E     - Entropy down/up
//	M B G   - Magnetic walls, black hole, cursor gravity
//	< >     - Time scale
//	+ -     - Zoom
//	Arrows  - Orbit the camera
//	V       - Toggle GIF recording
//	T       - Toggle the HUD
//	Esc     - Quit
//
// With cursor gravity on, mouse motion moves the attractor over the plane
// through the origin that faces the camera.
package viz
