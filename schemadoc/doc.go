// Package schemadoc builds the resource model of a JSON Schema document.
//
// A document's text may hold several schema resources: the top level
// one and any schemas embedded in it that declare their own identity or a
// dialect the registry does not know. FromText walks the syntax tree once,
// producing one ir.Node tree per resource, then validates every resource
// against the meta-schema of its dialect, in discovery order.
//
// A Document is never changed after FromText returns and may be shared by
// concurrent readers.
package schemadoc
