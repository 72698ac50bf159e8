// Package writers serializes engine records as tabular pairs, a Phylip
// matrix, or JSON lines.
//
// Writers are looked up by format name in DistanceWriters and consume a
// channel of records in engine order; they never reorder or buffer a whole
// run, except that Phylip needs the sample count up front (Options.Samples).
// JSONL goes through pkg/api (v1) so the wire format does not follow
// internal renames.
package writers
