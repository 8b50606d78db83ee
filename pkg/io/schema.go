package io

import "github.com/matzehuels/ifcqto/pkg/ifc"

// Wire types of the JSON interchange format.

type document struct {
	Schema   string    `json:"schema"`
	Units    units     `json:"units"`
	Elements []element `json:"elements"`
}

type units struct {
	Length string `json:"length,omitempty"`
}

type element struct {
	ID              int64            `json:"id"`
	GlobalID        string           `json:"global_id"`
	Type            string           `json:"type"`
	Name            string           `json:"name,omitempty"`
	Description     string           `json:"description,omitempty"`
	Container       *spatial         `json:"container,omitempty"`
	QuantitySets    []quantitySet    `json:"quantity_sets,omitempty"`
	PropertySets    []propertySet    `json:"property_sets,omitempty"`
	Classifications []classification `json:"classifications,omitempty"`
	Materials       []association    `json:"materials,omitempty"`
}

type spatial struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type quantitySet struct {
	Name       string     `json:"name"`
	Quantities []quantity `json:"quantities"`
}

type quantity struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Value      ifc.Value  `json:"value"`
	Quantities []quantity `json:"quantities,omitempty"`
}

type propertySet struct {
	Name       string     `json:"name"`
	Properties []property `json:"properties"`
}

type property struct {
	Name  string    `json:"name"`
	Value ifc.Value `json:"value"`
}

type classification struct {
	Kind           string `json:"kind"`
	Identification string `json:"identification,omitempty"`
	ItemReference  string `json:"item_reference,omitempty"`
	Name           string `json:"name,omitempty"`
	Source         string `json:"source,omitempty"`
	Edition        string `json:"edition,omitempty"`
}

type material struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type layer struct {
	Name      string    `json:"name,omitempty"`
	Material  *material `json:"material"`
	Thickness ifc.Value `json:"thickness"`
}

type layerSet struct {
	Name   string  `json:"name,omitempty"`
	Layers []layer `json:"layers"`
}

type constituent struct {
	Name     string    `json:"name,omitempty"`
	Category string    `json:"category,omitempty"`
	Material *material `json:"material"`
	Fraction ifc.Value `json:"fraction"`
}

// association is the union of all material association shapes; Type selects
// which fields apply.
type association struct {
	Type string `json:"type"`

	// material
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`

	// list
	Materials []material `json:"materials,omitempty"`

	// layer_set
	Layers []layer `json:"layers,omitempty"`

	// layer_set_usage
	LayerSet  *layerSet `json:"layer_set,omitempty"`
	Direction string    `json:"direction,omitempty"`

	// constituent_set
	Constituents []constituent `json:"constituents,omitempty"`
}
