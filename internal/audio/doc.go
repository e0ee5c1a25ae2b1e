// Package audio sonifies a running simulation: a pad that brightens with
// kinetic energy and a ping per contact, played through PortAudio.
package audio
