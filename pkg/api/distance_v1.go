// Package api holds the stable wire types written by distle.
package api

// DistanceV1 is the stable JSONL schema for one pair.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type DistanceV1 struct {
	IDA      string `json:"id_a"`
	IDB      string `json:"id_b"`
	Distance int    `json:"distance"`
}
