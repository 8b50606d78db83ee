package takeoff

import (
	"fmt"
	"strings"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

const (
	unknownLevel = "Unknown Level"

	defaultPropertySet = "PropertySet"
	defaultQuantitySet = "QuantitySet"

	// System reported for classifications found in properties.
	propertyClassificationSystem = "EBKP"
)

type keyValue struct {
	key, value string
}

// properties flattens the property and quantity sets of el into
// "<set>.<name>" keys. Properties without a value are skipped. Length, area,
// and volume quantities are formatted with three decimals. The second result
// lists the same entries in source order.
func properties(el *ifc.Element) (map[string]string, []keyValue) {
	props := make(map[string]string)
	var ordered []keyValue
	add := func(set, name, value string) {
		key := set + "." + name
		if _, dup := props[key]; !dup {
			ordered = append(ordered, keyValue{key, value})
		}
		props[key] = value
	}

	for _, ps := range el.PropertySets {
		if ps == nil {
			continue
		}
		set := orDefault(ps.Name, defaultPropertySet)
		for _, p := range ps.Properties {
			if p.Value.IsZero() {
				continue
			}
			add(set, p.Name, p.Value.String())
		}
	}
	for _, qs := range el.QuantitySets {
		if qs == nil {
			continue
		}
		set := orDefault(qs.Name, defaultQuantitySet)
		for _, q := range qs.Quantities {
			switch q.Kind {
			case ifc.QuantityLength, ifc.QuantityArea, ifc.QuantityVolume:
			default:
				continue
			}
			f, err := q.Value.Float()
			if err != nil {
				continue
			}
			add(set, q.Name, fmt.Sprintf("%.3f", f))
		}
	}
	return props, ordered
}

// level returns the name of the building storey containing el, or "" when
// el is not contained in a storey.
func level(el *ifc.Element) string {
	if el.Container == nil || !ifc.IsA(el.Container.Type, ifc.TypeBuildingStorey) {
		return ""
	}
	return orDefault(el.Container.Name, unknownLevel)
}

type classification struct {
	id, name, system string
}

// classify reads the classification of el. References supply the id and
// name (ItemReference in IFC2X3, Identification otherwise) and the system of
// their source. Direct system associations supply the system name and
// edition. Later associations override earlier ones. Without an id, the first
// property whose key mentions "ebkp" or "classification" is used.
func classify(el *ifc.Element, ifc2x3 bool, props []keyValue) classification {
	var c classification
	for _, ref := range el.Classifications {
		switch ref.Kind {
		case ifc.ClassificationReference:
			if ifc2x3 {
				c.id = ref.ItemReference
			} else {
				c.id = ref.Identification
			}
			c.name = ref.Name
			if ref.Source != "" {
				c.system = ref.Source
			}
		case ifc.ClassificationSystem:
			c.system = ref.Name
			c.name = ref.Edition
		}
	}
	if c.id != "" {
		return c
	}
	for _, kv := range props {
		key := strings.ToLower(kv.key)
		if strings.Contains(key, "ebkp") || strings.Contains(key, "classification") {
			c.id = kv.value
			c.system = propertyClassificationSystem
			break
		}
	}
	return c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
