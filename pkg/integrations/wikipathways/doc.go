// Package wikipathways provides a client for the WikiPathways interaction
// search.
//
// findInteractions returns an XML document listing every interaction whose
// participants match a text query. Each participant appears as a name
// element ("left" or "right") followed by a sibling holding the
// participant's label. The document is read with goquery; element names
// are matched without their namespace prefix.
package wikipathways
