package ifc

import "strings"

// QuantityKind identifies the measure type of a [Quantity].
type QuantityKind int

const (
	QuantityUnknown QuantityKind = iota
	QuantityLength
	QuantityArea
	QuantityVolume
	QuantityCount
	QuantityWeight
	QuantityTime
	// QuantityComplex nests sub-quantities, e.g. a named layer record
	// carrying its own Width.
	QuantityComplex
)

var quantityKindNames = map[QuantityKind]string{
	QuantityUnknown: "unknown",
	QuantityLength:  "length",
	QuantityArea:    "area",
	QuantityVolume:  "volume",
	QuantityCount:   "count",
	QuantityWeight:  "weight",
	QuantityTime:    "time",
	QuantityComplex: "complex",
}

var quantityKindEntities = map[string]QuantityKind{
	"ifcquantitylength":          QuantityLength,
	"ifcquantityarea":            QuantityArea,
	"ifcquantityvolume":          QuantityVolume,
	"ifcquantitycount":           QuantityCount,
	"ifcquantityweight":          QuantityWeight,
	"ifcquantitytime":            QuantityTime,
	"ifcphysicalcomplexquantity": QuantityComplex,
}

func (k QuantityKind) String() string {
	if s, ok := quantityKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseQuantityKind accepts either the short kind name ("volume") or the IFC
// entity name ("IfcQuantityVolume"), case-insensitively.
func ParseQuantityKind(s string) (QuantityKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := quantityKindEntities[s]; ok {
		return k, true
	}
	for k, name := range quantityKindNames {
		if name == s && k != QuantityUnknown {
			return k, true
		}
	}
	return QuantityUnknown, false
}

// Quantity is a named measure. Complex quantities carry their nested
// sub-quantities in Quantities and leave Value absent.
type Quantity struct {
	Name       string
	Kind       QuantityKind
	Value      Value
	Quantities []*Quantity
}

// QuantitySet is a named collection of quantities (an IfcElementQuantity).
type QuantitySet struct {
	Name       string
	Quantities []*Quantity
}

// Property is a single-value property. Value is absent when the source has
// no nominal value.
type Property struct {
	Name  string
	Value Value
}

// PropertySet is a named collection of single-value properties.
type PropertySet struct {
	Name       string
	Properties []Property
}

// ClassificationKind distinguishes a classification reference from a direct
// association with a classification system.
type ClassificationKind int

const (
	ClassificationReference ClassificationKind = iota
	ClassificationSystem
)

// Classification is a classification association of an element.
//
// For references, IFC2X3 models fill ItemReference while later schemas fill
// Identification. Source names the referenced classification system.
// For direct system associations, Name is the system name and Edition its
// edition.
type Classification struct {
	Kind           ClassificationKind
	Identification string
	ItemReference  string
	Name           string
	Source         string
	Edition        string
}

// Spatial is the spatial structure an element is contained in.
type Spatial struct {
	Type string
	Name string
}

// Element is one building element of the model graph.
type Element struct {
	ID          int64
	GlobalID    string
	Type        string
	Name        string
	Description string

	QuantitySets    []*QuantitySet
	PropertySets    []*PropertySet
	Materials       []MaterialAssociation
	Classifications []Classification
	Container       *Spatial
}

// IsA reports whether the element is an instance of typ or one of its
// subtypes.
func (e *Element) IsA(typ string) bool {
	return IsA(e.Type, typ)
}

// Property looks up a single-value property by property set and property
// name. Both names are matched case-insensitively after trimming.
func (e *Element) Property(pset, name string) (Property, bool) {
	for _, ps := range e.PropertySets {
		if ps == nil || !equalName(ps.Name, pset) {
			continue
		}
		for _, p := range ps.Properties {
			if equalName(p.Name, name) {
				return p, true
			}
		}
	}
	return Property{}, false
}

func equalName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
