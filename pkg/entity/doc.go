// Package entity defines the biological entities that suggestions are made
// for and about.
//
// An [Entity] is an identifier in a [DataSource] namespace plus a display
// label and a datanode [Kind]. The entity the user picks is the hub; what a
// provider returns are [SpokeDraft] values, entities without a position.
//
// Entities are plain values. Code that needs a variation copies and
// modifies the copy, so a hub is never mutated by the provider that reads
// it.
package entity
