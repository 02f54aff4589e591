// Package interactions provides locally curated interaction stores.
//
// Two backends answer the same question, "which entities interact with
// this one":
//
//   - [Store]: a SQLite table, opened with the pure-Go modernc.org/sqlite
//     driver so no cgo toolchain is needed
//   - [Graph]: a Neo4j graph of Entity nodes joined by INTERACTS_WITH
//     relationships
//
// Both implement [Source]. Interactions are undirected.
package interactions
