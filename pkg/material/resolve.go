package material

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

// unnamedMaterial keys a material that has no name.
const unnamedMaterial = "Unnamed Material"

// Entry is the apportioned share of one material of an association, before
// name disambiguation and rounding.
type Entry struct {
	Material string
	Record
}

// Apportioner resolves material associations into per-material records.
type Apportioner struct {
	// Scale converts model length units to millimetres.
	Scale  float64
	Logger *log.Logger
}

// NewApportioner creates an apportioner. A non-positive scale is treated as 1
// and a nil logger discards output.
func NewApportioner(scale float64, logger *log.Logger) *Apportioner {
	if scale <= 0 {
		scale = 1
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Apportioner{Scale: scale, Logger: logger}
}

// Apportion splits volume across the materials of assoc. el supplies the
// quantity sets used to derive constituent widths. When volume is nil the
// records carry fractions only. Layers and constituents without a material
// produce no entry.
func (a *Apportioner) Apportion(assoc ifc.MaterialAssociation, el *ifc.Element, volume *float64) []Entry {
	switch m := assoc.(type) {
	case *ifc.Material:
		if m == nil {
			return nil
		}
		return []Entry{{Material: materialKey(m), Record: Record{Fraction: 1, Volume: part(volume, 1)}}}

	case *ifc.MaterialList:
		if m == nil {
			return nil
		}
		var mats []*ifc.Material
		for _, mat := range m.Materials {
			if mat != nil {
				mats = append(mats, mat)
			}
		}
		entries := make([]Entry, 0, len(mats))
		for _, mat := range mats {
			f := 1 / float64(len(mats))
			entries = append(entries, Entry{Material: materialKey(mat), Record: Record{Fraction: f, Volume: part(volume, f)}})
		}
		return entries

	case *ifc.LayerSet, *ifc.LayerSetUsage:
		set := ifc.LayerSetOf(assoc)
		shares, basis := LayerFractions(set, a.Scale)
		if len(shares) == 0 {
			a.Logger.Debug("layer set without layers", "element", elementID(el))
			return nil
		}
		a.Logger.Debug("apportioned layers", "element", elementID(el), "layers", len(shares), "basis", basis)
		var entries []Entry
		for i, l := range set.Layers {
			if l == nil || l.Material == nil {
				continue
			}
			entries = append(entries, entry(l.Material, shares[i], volume))
		}
		return entries

	case *ifc.ConstituentSet:
		if m == nil {
			return nil
		}
		var sets []*ifc.QuantitySet
		if el != nil {
			sets = el.QuantitySets
		}
		shares, basis := ConstituentFractions(m.Constituents, sets, a.Scale)
		if len(shares) == 0 {
			a.Logger.Debug("constituent set without constituents", "element", elementID(el))
			return nil
		}
		a.Logger.Debug("apportioned constituents", "element", elementID(el), "constituents", len(shares), "basis", basis)
		var entries []Entry
		for i, c := range m.Constituents {
			if c == nil || c.Material == nil {
				continue
			}
			entries = append(entries, entry(c.Material, shares[i], volume))
		}
		return entries

	default:
		a.Logger.Debug("unsupported material association", "element", elementID(el))
		return nil
	}
}

func entry(mat *ifc.Material, s Share, volume *float64) Entry {
	e := Entry{Material: materialKey(mat), Record: Record{Fraction: s.Fraction, Volume: part(volume, s.Fraction)}}
	if s.Width > 0 {
		w := s.Width
		e.Width = &w
	}
	return e
}

func part(volume *float64, fraction float64) *float64 {
	if volume == nil {
		return nil
	}
	v := *volume * fraction
	return &v
}

func materialKey(m *ifc.Material) string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return unnamedMaterial
}

func elementID(el *ifc.Element) int64 {
	if el == nil {
		return 0
	}
	return el.ID
}
