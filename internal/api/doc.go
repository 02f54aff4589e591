// Package api serves the dispatcher over HTTP.
//
// Routes:
//
//	GET    /v1/providers                 installed providers, with applicability when a hub is given
//	POST   /v1/dispatches                start a dispatch
//	GET    /v1/dispatches                retained dispatches
//	GET    /v1/dispatches/{id}           one dispatch; ?wait=5s blocks until its outcome
//	GET    /v1/dispatches/{id}/render    the completed fragment as json, yaml, dot or svg
//	DELETE /v1/dispatches/{id}           cancel a dispatch
//	GET    /v1/events                    outcomes as server-sent events
//
// Errors are JSON objects with the error code and message. The [Hub] is a
// suggest.Sink, so it must be part of the dispatcher's sink for /v1/events
// to see outcomes.
//
// /v1/events is best effort: a client that falls behind skips events. A
// client that must see every outcome follows up with
// GET /v1/dispatches/{id}?wait= for the dispatches it started.
package api
