// Package physics provides acceleration fields for spheres driven by an
// integrator:
//
//   - [Gravity]: constant pull along -Y
//   - [Spring]: Hooke pull towards the box centre
//   - [Drag]: linear velocity damping
//   - [Sum]: superposition of other fields
//
// Fields are built by name with [New], which also accepts compositions such
// as "gravity+drag". Parameterised fields implement [Configurable].
package physics
