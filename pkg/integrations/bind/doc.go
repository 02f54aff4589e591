// Package bind provides a client for the BIND interaction database SOAP
// service (Biomolecular Interaction Network Database).
//
// The public service at www.bind.ca has been retired, so there is no
// default base URL: the client talks to a mirror of the BINDSOAP Apache
// Axis endpoint, whose operations can be invoked with plain GET requests
// (?method=idSearch&...). The SOAP response carries the matching
// interaction records as comma-separated lines.
package bind
