// Package gui is a raylib window showing the spheres in 3D. It opens on a
// preset menu, then a screen to adjust the sphere count, radius, speed,
// timestep and field coefficients before the run starts.
package gui
