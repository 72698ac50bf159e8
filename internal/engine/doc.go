// Package engine computes all-pairs distances over a matrix. It never
// imports app, writers, cli, or pipeline; keep it domain-only.
//
// Output order is fixed: i ascends and, for each i, j ascends, regardless
// of the thread count. External outputs must not depend on Record; use
// pkg/api for stable wire types.
package engine
