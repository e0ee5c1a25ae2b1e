// Package analysis characterises recorded sphere motion.
//
//   - [PowerSpectrum] and [DominantFrequency]: bounce rhythm of one coordinate
//   - [NewPhasePortrait]: position against velocity for one sphere and axis
//   - [NewPoincareSection]: crossings of a plane through the box
//   - [Diverge]: growth of a tiny perturbation, with [Divergence.Exponent]
//     estimating the largest Lyapunov exponent
//   - [SpeedHistogram]: distribution of sphere speeds
//
// # Chaos Detection
//
// Colliding spheres are a billiard, so a nudge to one centre spreads to all:
//
//	d, _ := analysis.Diverge(opts, spheres, 1e-4, 0.01, 500)
//	if d.Exponent(0.5) > 0 {
//	    // nearby starts separate exponentially
//	}
package analysis
