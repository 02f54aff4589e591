// Package phasar provides a client for the Phasar text-mining connection
// service, which suggests enzymes and compounds co-mentioned with an enzyme
// in the literature.
package phasar
