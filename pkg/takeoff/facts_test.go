package takeoff

import (
	"testing"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

func TestElementFacts(t *testing.T) {
	el := &ifc.Element{
		ID:          42,
		GlobalID:    "2O2Fr$t4X7Zf8NOew3FLOH",
		Type:        "IfcWallStandardCase",
		Description: "External wall",
		PropertySets: []*ifc.PropertySet{
			{Name: "Pset_WallCommon", Properties: []ifc.Property{
				{Name: "IsExternal", Value: ifc.Text("True")},
				{Name: "FireRating", Value: ifc.Value{}},
			}},
			{Properties: []ifc.Property{{Name: "Note", Value: ifc.Text("x")}}},
		},
		QuantitySets: []*ifc.QuantitySet{{Name: "Qto", Quantities: []*ifc.Quantity{
			{Name: "Width", Kind: ifc.QuantityLength, Value: ifc.Number(0.3)},
			{Name: "Count", Kind: ifc.QuantityCount, Value: ifc.Number(2)},
			{Name: "Bad", Kind: ifc.QuantityArea, Value: ifc.Text("n/a")},
		}}},
		Container: &ifc.Spatial{Type: "IfcBuildingStorey", Name: "Level 1"},
	}

	got := NewAssembler(nil, nil).Element(el)

	if got.ID != "42" || got.Name != unnamedElement || got.Level != "Level 1" {
		t.Errorf("id/name/level = %q/%q/%q", got.ID, got.Name, got.Level)
	}
	want := map[string]string{
		"Pset_WallCommon.IsExternal": "True",
		"PropertySet.Note":           "x",
		"Qto.Width":                  "0.300",
	}
	if len(got.Properties) != len(want) {
		t.Errorf("Properties = %v, want %v", got.Properties, want)
	}
	for k, v := range want {
		if got.Properties[k] != v {
			t.Errorf("Properties[%q] = %q, want %q", k, got.Properties[k], v)
		}
	}
	if got.Volume != nil {
		t.Errorf("Volume = %+v, want nil", got.Volume)
	}
	if got.HasQuantities() {
		t.Error("HasQuantities() = true, want false")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		container *ifc.Spatial
		want      string
	}{
		{nil, ""},
		{&ifc.Spatial{Type: "IfcBuildingStorey", Name: "EG"}, "EG"},
		{&ifc.Spatial{Type: "IfcBuildingStorey"}, unknownLevel},
		{&ifc.Spatial{Type: "IfcSpace", Name: "Room 1"}, ""},
	}

	for _, tt := range tests {
		if got := level(&ifc.Element{Container: tt.container}); got != tt.want {
			t.Errorf("level(%+v) = %q, want %q", tt.container, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	ref := ifc.Classification{
		Kind:           ifc.ClassificationReference,
		Identification: "C2.01",
		ItemReference:  "C2.01-2x3",
		Name:           "Aussenwand",
		Source:         "eBKP-H",
	}
	props := []keyValue{{"Pset_Custom.eBKP", "C4.1"}, {"Pset_Custom.Classification", "X"}}

	tests := []struct {
		name   string
		el     *ifc.Element
		ifc2x3 bool
		props  []keyValue
		want   classification
	}{
		{"ifc4 reference", &ifc.Element{Classifications: []ifc.Classification{ref}}, false, nil,
			classification{"C2.01", "Aussenwand", "eBKP-H"}},
		{"ifc2x3 reference", &ifc.Element{Classifications: []ifc.Classification{ref}}, true, nil,
			classification{"C2.01-2x3", "Aussenwand", "eBKP-H"}},
		{"system only falls back to properties", &ifc.Element{Classifications: []ifc.Classification{
			{Kind: ifc.ClassificationSystem, Name: "Uniclass", Edition: "2015"},
		}}, false, props, classification{"C4.1", "2015", propertyClassificationSystem}},
		{"property fallback", &ifc.Element{}, false, props,
			classification{"C4.1", "", propertyClassificationSystem}},
		{"nothing", &ifc.Element{}, false, []keyValue{{"Pset.Other", "1"}}, classification{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.el, tt.ifc2x3, tt.props); got != tt.want {
				t.Errorf("classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestElementClassificationFromSchema(t *testing.T) {
	el := &ifc.Element{ID: 1, Classifications: []ifc.Classification{
		{Kind: ifc.ClassificationReference, Identification: "new", ItemReference: "old"},
	}}
	m := ifc.NewModel("IFC2X3", ifc.Units{}, []*ifc.Element{el})

	if got := NewAssembler(m, nil).Element(el).ClassificationID; got != "old" {
		t.Errorf("ClassificationID = %q, want %q", got, "old")
	}
}
