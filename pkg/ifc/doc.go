// Package ifc provides the in-memory element graph consumed by the quantity
// takeoff engine.
//
// # Overview
//
// The graph mirrors the subset of an IFC building model that quantity
// takeoff needs: elements with their attached quantity sets, property sets,
// material associations, classifications, and spatial container. It is
// produced by an external IFC toolkit (see [github.com/matzehuels/ifcqto/pkg/io]
// for the JSON interchange format) and is treated as immutable once loaded.
//
// # Values
//
// Measure values are carried as [Value], which preserves the raw text found in
// the source. Numeric coercion happens at the point of use through
// [Value.Float], so a single malformed value never prevents the rest of an
// element from being read.
//
// # Material Associations
//
// [MaterialAssociation] is a closed union over [*Material], [*MaterialList],
// [*LayerSet], [*LayerSetUsage], and [*ConstituentSet]. The set is sealed by
// an unexported method so consumers can switch over it exhaustively.
//
// # Types
//
// [IsA] answers subtype questions using a built-in table of the IFC element
// hierarchy, and [Model.ByType] returns every element that is an instance of
// a class including its subtypes.
package ifc
