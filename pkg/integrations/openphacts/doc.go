// Package openphacts provides a client for the Open PHACTS Linked Data API.
//
// Only compound pharmacology is used: for a compound URI the API lists the
// assays it was tested in, and each assay names its target together with
// the target's exact matches in other databases. UniProt matches become
// protein spokes.
//
// Requests are authenticated with an application id and key.
package openphacts
