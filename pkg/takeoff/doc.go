// Package takeoff assembles the quantity takeoff record of a building element.
//
// An [Assembler] is bound to one model. For each element it reads the volume
// (memoized per element id for the model's lifetime), the first matching
// area, and the apportioned material volumes, and rounds the results: 5
// decimals for material fractions, volumes and widths, 3 decimals for the
// element's own volume and area.
//
// Materials are resolved association by association in element order. When
// two associations yield the same material name the later one is stored as
// "Name (1)", "Name (2)", and so on. When no structured association yields an
// entry, the descriptive "Material.Layers" property is parsed as a fallback.
//
// The full [Element] record additionally carries the element's flattened
// properties, its building storey, and its classification, mirroring what a
// cost estimator needs to place the element in a bill of quantities.
//
// Nothing in this package fails: missing and malformed facts fall back to
// defaults, and an element always produces a record.
package takeoff
