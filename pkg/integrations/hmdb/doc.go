// Package hmdb reads a metabolic network derived from the Human Metabolome
// Database out of MongoDB.
//
// Each document of the collection is one reaction edge between two HMDB
// metabolites:
//
//	{"left": "HMDB00031", "left_name": "...", "right": "HMDB00123", "right_name": "..."}
//
// Edges are undirected for neighbour lookups.
package hmdb
