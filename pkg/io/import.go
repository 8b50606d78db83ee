package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/ifcqto/pkg/errors"
	"github.com/matzehuels/ifcqto/pkg/ifc"
)

// Association type names, lower-cased.
var associationTypes = map[string]string{
	"material":                  "material",
	"ifcmaterial":               "material",
	"list":                      "list",
	"material_list":             "list",
	"ifcmateriallist":           "list",
	"layer_set":                 "layer_set",
	"ifcmateriallayerset":       "layer_set",
	"layer_set_usage":           "layer_set_usage",
	"ifcmateriallayersetusage":  "layer_set_usage",
	"constituent_set":           "constituent_set",
	"ifcmaterialconstituentset": "constituent_set",
}

// ReadModel decodes a JSON element graph from r. ReadModel does not close r.
func ReadModel(r io.Reader) (*ifc.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return DecodeModel(data)
}

// ImportModel reads the JSON element graph in the file at path.
func ImportModel(path string) (*ifc.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// DecodeModel decodes a JSON element graph. An empty document, malformed
// JSON, an element without a type, and an unknown material association type
// are INVALID_MODEL errors.
func DecodeModel(data []byte) (*ifc.Model, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidModel, "empty model document")
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}

	elements := make([]*ifc.Element, 0, len(doc.Elements))
	for i, e := range doc.Elements {
		el, err := e.toElement()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "element %d (index %d)", e.ID, i)
		}
		elements = append(elements, el)
	}
	return ifc.NewModel(doc.Schema, ifc.Units{Length: doc.Units.Length}, elements), nil
}

func (e element) toElement() (*ifc.Element, error) {
	if strings.TrimSpace(e.Type) == "" {
		return nil, fmt.Errorf("missing type")
	}
	el := &ifc.Element{
		ID:          e.ID,
		GlobalID:    e.GlobalID,
		Type:        strings.TrimSpace(e.Type),
		Name:        e.Name,
		Description: e.Description,
	}
	if e.Container != nil {
		el.Container = &ifc.Spatial{Type: e.Container.Type, Name: e.Container.Name}
	}
	for _, qs := range e.QuantitySets {
		el.QuantitySets = append(el.QuantitySets, &ifc.QuantitySet{
			Name:       qs.Name,
			Quantities: toQuantities(qs.Quantities),
		})
	}
	for _, ps := range e.PropertySets {
		set := &ifc.PropertySet{Name: ps.Name}
		for _, p := range ps.Properties {
			set.Properties = append(set.Properties, ifc.Property{Name: p.Name, Value: p.Value})
		}
		el.PropertySets = append(el.PropertySets, set)
	}
	for _, c := range e.Classifications {
		kind := ifc.ClassificationReference
		switch strings.ToLower(strings.TrimSpace(c.Kind)) {
		case "system", "ifcclassification":
			kind = ifc.ClassificationSystem
		}
		el.Classifications = append(el.Classifications, ifc.Classification{
			Kind:           kind,
			Identification: c.Identification,
			ItemReference:  c.ItemReference,
			Name:           c.Name,
			Source:         c.Source,
			Edition:        c.Edition,
		})
	}
	for i, a := range e.Materials {
		assoc, err := a.toAssociation()
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		el.Materials = append(el.Materials, assoc)
	}
	return el, nil
}

// toQuantities converts quantities. Unknown kinds are kept as
// QuantityUnknown so they are never mistaken for a measure.
func toQuantities(qs []quantity) []*ifc.Quantity {
	out := make([]*ifc.Quantity, 0, len(qs))
	for _, q := range qs {
		kind, _ := ifc.ParseQuantityKind(q.Kind)
		out = append(out, &ifc.Quantity{
			Name:       q.Name,
			Kind:       kind,
			Value:      q.Value,
			Quantities: toQuantities(q.Quantities),
		})
	}
	return out
}

func (a association) toAssociation() (ifc.MaterialAssociation, error) {
	typ, ok := associationTypes[strings.ToLower(strings.TrimSpace(a.Type))]
	if !ok {
		return nil, fmt.Errorf("unknown association type %q", a.Type)
	}
	switch typ {
	case "material":
		return &ifc.Material{Name: a.Name, Category: a.Category}, nil
	case "list":
		list := &ifc.MaterialList{}
		for _, m := range a.Materials {
			list.Materials = append(list.Materials, &ifc.Material{Name: m.Name, Category: m.Category})
		}
		return list, nil
	case "layer_set":
		return toLayerSet(a.Name, a.Layers), nil
	case "layer_set_usage":
		usage := &ifc.LayerSetUsage{Direction: a.Direction}
		if a.LayerSet != nil {
			usage.ForLayerSet = toLayerSet(a.LayerSet.Name, a.LayerSet.Layers)
		}
		return usage, nil
	default:
		set := &ifc.ConstituentSet{Name: a.Name}
		for _, c := range a.Constituents {
			set.Constituents = append(set.Constituents, &ifc.Constituent{
				Name:     c.Name,
				Category: c.Category,
				Material: toMaterial(c.Material),
				Fraction: c.Fraction,
			})
		}
		return set, nil
	}
}

func toLayerSet(name string, layers []layer) *ifc.LayerSet {
	set := &ifc.LayerSet{Name: name}
	for _, l := range layers {
		set.Layers = append(set.Layers, &ifc.Layer{
			Name:      l.Name,
			Material:  toMaterial(l.Material),
			Thickness: l.Thickness,
		})
	}
	return set
}

func toMaterial(m *material) *ifc.Material {
	if m == nil {
		return nil
	}
	return &ifc.Material{Name: m.Name, Category: m.Category}
}
