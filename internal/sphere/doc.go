// Package sphere simulates a fixed population of equal-radius spheres
// moving inside an axis-aligned box. Each update advances the centres,
// reflects them off the walls and resolves pairwise contacts.
package sphere
