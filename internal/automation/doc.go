// Package automation runs batches of sphere simulations: YAML scenarios
// of preset-plus-override steps, and one-parameter sweeps.
//
// A scenario file looks like:
//
//	name: drag comparison
//	steps:
//	  - preset: gravity
//	    set: {drag: 0.5}
//	    save: true
package automation
