// Package viz renders spheres in a box on a Braille terminal canvas.
//
//   - [Model]: Bubble Tea live view that steps a [sphere.Motion] every frame
//   - [Menu]: preset picker that opens a live view
//   - [Camera]: orbit camera driven by mouse drags or the arrow keys
//   - [CanvasToSVG]: static export of a drawn canvas
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	S      - Single step while paused
//	R      - Reset to the initial spheres
//	Drag   - Rotate the camera
//	+/-    - Zoom
//	[ ]    - Slower/faster
//	T      - Cycle themes
package viz
