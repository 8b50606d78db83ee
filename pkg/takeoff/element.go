package takeoff

import (
	"github.com/matzehuels/ifcqto/pkg/material"
	"github.com/matzehuels/ifcqto/pkg/quantity"
)

// Rounding of element-level quantity values.
const QuantityDigits = 3

// Quantities are the computed quantities of one element.
type Quantities struct {
	Volume          quantity.Volume   `json:"volume"`
	Area            float64           `json:"area"`
	MaterialVolumes *material.Volumes `json:"material_volumes,omitempty"`
}

// Element is the takeoff record of one element.
type Element struct {
	ID          string            `json:"id"`
	GlobalID    string            `json:"global_id"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]string `json:"properties"`
	Level       string            `json:"level,omitempty"`

	ClassificationID     string `json:"classification_id,omitempty"`
	ClassificationName   string `json:"classification_name,omitempty"`
	ClassificationSystem string `json:"classification_system,omitempty"`

	Volume          *quantity.Volume  `json:"volume,omitempty"`
	Area            float64           `json:"area"`
	MaterialVolumes *material.Volumes `json:"material_volumes,omitempty"`
}

// Materials returns the material names of the element in resolution order.
func (e Element) Materials() []string {
	return e.MaterialVolumes.Names()
}

// HasQuantities reports whether any volume, area, or material was found.
func (e Element) HasQuantities() bool {
	return e.Volume != nil || e.Area > 0 || e.MaterialVolumes.Len() > 0
}
