// Package io provides JSON import of element graphs and JSON and XLSX export
// of takeoff results.
//
// # Overview
//
// ifcqto does not parse STEP files. An external IFC toolkit extracts the
// element graph into a JSON interchange document, which this package decodes
// into an [ifc.Model]. Takeoff results are written back as JSON or as a
// bill-of-quantities workbook.
//
// # JSON Format
//
//	{
//	  "schema": "IFC4",
//	  "units": {"length": "m"},
//	  "elements": [
//	    {
//	      "id": 412,
//	      "global_id": "2O2Fr$t4X7Zf8NOew3FLOH",
//	      "type": "IfcWallStandardCase",
//	      "name": "Basic Wall:Exterior 300",
//	      "container": {"type": "IfcBuildingStorey", "name": "Level 1"},
//	      "quantity_sets": [
//	        {"name": "Qto_WallBaseQuantities", "quantities": [
//	          {"name": "NetVolume", "kind": "volume", "value": 4.2},
//	          {"name": "Concrete", "kind": "complex", "quantities": [
//	            {"name": "Width", "kind": "length", "value": 0.2}
//	          ]}
//	        ]}
//	      ],
//	      "property_sets": [
//	        {"name": "Pset_WallCommon", "properties": [
//	          {"name": "IsExternal", "value": true}
//	        ]}
//	      ],
//	      "classifications": [
//	        {"kind": "reference", "identification": "C2.01", "name": "Exterior wall", "source": "eBKP-H"}
//	      ],
//	      "materials": [
//	        {"type": "layer_set_usage", "layer_set": {"layers": [
//	          {"material": {"name": "Concrete"}, "thickness": 0.2}
//	        ]}}
//	      ]
//	    }
//	  ]
//	}
//
// Quantity kinds accept the short names (length, area, volume, count, weight,
// time, complex) or the IFC entity names (IfcQuantityVolume,
// IfcPhysicalComplexQuantity). Material association types accept material,
// list, layer_set, layer_set_usage, and constituent_set, or the IFC entity
// names (IfcMaterial, IfcMaterialList, IfcMaterialLayerSet,
// IfcMaterialLayerSetUsage, IfcMaterialConstituentSet). Values may be
// numbers, strings, booleans, or null; they are kept verbatim and coerced
// only when read.
//
// # Import
//
// Use [ImportModel] to read a model from a file path, [ReadModel] to read
// from any io.Reader, or [DecodeModel] for a document already in memory.
// Structural problems (unknown association types, elements without a type)
// are reported as INVALID_MODEL errors naming the offending element.
//
// # Export
//
// [WriteJSON] writes takeoff records as an indented JSON array. [WriteXLSX]
// writes a workbook with one row per element and material; elements without
// materials get a single row.
package io
