// Package bridgedb provides a client for the BridgeDb identifier mapping
// web service.
//
// BridgeDb maps an identifier in one data source to its cross-references
// in others, per organism. Data sources are addressed by their BridgeDb
// system codes (L for Entrez Gene, Ch for HMDB, ...).
package bridgedb
