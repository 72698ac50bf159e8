// Package pipeline loads the run inputs (matrix and optional precomputed
// distances) and streams engine records to a visit callback.
//
// The only contract to implement is Computer (ForEach).
// This keeps the pipeline swappable and testable.
package pipeline
