package ifc

// MaterialAssociation is the material relationship of an element. The set of
// implementations is closed: [*Material], [*MaterialList], [*LayerSet],
// [*LayerSetUsage], and [*ConstituentSet].
type MaterialAssociation interface {
	materialAssociation()
}

// Material is a single named material.
type Material struct {
	Name     string
	Category string
}

// MaterialList associates several materials without any proportion data.
type MaterialList struct {
	Materials []*Material
}

// Layer is one layer of a [LayerSet]. Thickness is in model length units and
// may be absent or malformed.
type Layer struct {
	Name      string
	Material  *Material
	Thickness Value
}

// LayerSet is an ordered list of material layers.
type LayerSet struct {
	Name   string
	Layers []*Layer
}

// LayerSetUsage places a [LayerSet] on an element.
type LayerSetUsage struct {
	ForLayerSet *LayerSet
	Direction   string
}

// Constituent is one part of a [ConstituentSet]. Fraction is the declared
// volume fraction, absent when the source declares none.
type Constituent struct {
	Name     string
	Category string
	Material *Material
	Fraction Value
}

// ConstituentSet is a set of named material constituents.
type ConstituentSet struct {
	Name         string
	Constituents []*Constituent
}

func (*Material) materialAssociation()       {}
func (*MaterialList) materialAssociation()   {}
func (*LayerSet) materialAssociation()       {}
func (*LayerSetUsage) materialAssociation()  {}
func (*ConstituentSet) materialAssociation() {}

// LayerSetOf resolves a layer set or layer set usage to its underlying layer
// set. It returns nil for every other association.
func LayerSetOf(a MaterialAssociation) *LayerSet {
	switch m := a.(type) {
	case *LayerSet:
		return m
	case *LayerSetUsage:
		if m == nil {
			return nil
		}
		return m.ForLayerSet
	}
	return nil
}

// MaterialName returns the material's name, or "" for a nil material.
func MaterialName(m *Material) string {
	if m == nil {
		return ""
	}
	return m.Name
}
