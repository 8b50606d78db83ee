package quantity

import (
	"strings"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

// Quantity and property names carrying element volumes. Matching is exact.
const (
	NameNetVolume   = "NetVolume"
	NameGrossVolume = "GrossVolume"
)

// areaKeywords are matched against lower-cased, space-stripped area quantity
// names. The first quantity matching any keyword wins; "area" subsumes the
// others, which are kept to document the preferred quantities.
var areaKeywords = []string{"netarea", "netsidearea", "area"}

// Volume holds the net and gross volume of an element. Either may be nil.
type Volume struct {
	Net   *float64 `json:"net"`
	Gross *float64 `json:"gross"`
}

// Value returns the volume used for material apportionment: net, else gross.
// A zero volume counts as unknown and falls through.
func (v Volume) Value() *float64 {
	if v.Net != nil && *v.Net != 0 {
		return v.Net
	}
	if v.Gross != nil && *v.Gross != 0 {
		return v.Gross
	}
	return nil
}

// ReadVolume scans the element's quantity sets for NetVolume and GrossVolume
// volume quantities. If neither is found it scans the property sets for
// single-value properties with the same names. Values that cannot be read as
// numbers are skipped; later matches overwrite earlier ones.
func ReadVolume(el *ifc.Element) Volume {
	var v Volume
	for _, qs := range el.QuantitySets {
		if qs == nil {
			continue
		}
		for _, q := range qs.Quantities {
			if q == nil {
				continue
			}
			if q.Kind != ifc.QuantityVolume {
				continue
			}
			assignVolume(&v, q.Name, q.Value)
		}
	}
	if v.Net != nil || v.Gross != nil {
		return v
	}
	for _, ps := range el.PropertySets {
		if ps == nil {
			continue
		}
		for _, p := range ps.Properties {
			if p.Value.IsZero() {
				continue
			}
			assignVolume(&v, p.Name, p.Value)
		}
	}
	return v
}

func assignVolume(v *Volume, name string, value ifc.Value) {
	if name != NameNetVolume && name != NameGrossVolume {
		return
	}
	f, err := value.Float()
	if err != nil {
		return
	}
	if name == NameNetVolume {
		v.Net = &f
	} else {
		v.Gross = &f
	}
}

// ReadArea returns the value of the first Area quantity, in quantity set and
// quantity order, whose normalized name contains an area keyword. It reports
// false when no such quantity has a numeric value.
func ReadArea(el *ifc.Element) (float64, bool) {
	for _, qs := range el.QuantitySets {
		if qs == nil {
			continue
		}
		for _, q := range qs.Quantities {
			if q == nil {
				continue
			}
			if q.Kind != ifc.QuantityArea || !isAreaName(q.Name) {
				continue
			}
			if f, err := q.Value.Float(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func isAreaName(name string) bool {
	n := strings.ReplaceAll(strings.ToLower(name), " ", "")
	for _, kw := range areaKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}
