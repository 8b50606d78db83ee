package material

import (
	"strings"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

const (
	// DefaultLayerThickness is the placeholder thickness of a layer without
	// a usable measurement. It is a weight, not a length, and is never scaled.
	DefaultLayerThickness = 1.0

	// unnamedConstituent is the matching name of a constituent without one.
	unnamedConstituent = "unnamed constituent"

	// widthQuantity is the sub-quantity of a complex quantity carrying the
	// constituent width.
	widthQuantity = "width"

	// minFractionSum below which derived fractions are considered absent.
	minFractionSum = 1e-4
)

// Basis tells how a set of fractions was derived.
type Basis int

const (
	BasisEqual Basis = iota
	BasisDeclared
	BasisWidth
	BasisThickness
)

func (b Basis) String() string {
	switch b {
	case BasisDeclared:
		return "declared"
	case BasisWidth:
		return "width"
	case BasisThickness:
		return "thickness"
	default:
		return "equal"
	}
}

// Share is the fraction of one layer or constituent. Width is the measured
// width in millimetres, or 0 when none was measured.
type Share struct {
	Fraction float64
	Width    float64
}

// ConstituentFractions computes one share per constituent, in input order.
//
// Declared fractions take precedence: when any constituent declares a
// positive fraction, the declared fractions are normalized to sum to 1, the
// undeclared constituents split the remainder equally, and no widths are
// derived. Otherwise each constituent's width is looked up in quantitySets:
// the k-th constituent with a given name takes the Width sub-quantity of the
// k-th complex quantity with that name, falling back to the first length
// quantity whose name contains the constituent name. Widths are multiplied by
// scale (model length unit to millimetres). Without any width the shares are
// equal.
func ConstituentFractions(constituents []*ifc.Constituent, quantitySets []*ifc.QuantitySet, scale float64) ([]Share, Basis) {
	if len(constituents) == 0 {
		return nil, BasisEqual
	}
	shares := make([]Share, len(constituents))

	if declaredFractions(constituents, shares) {
		normalize(shares)
		return shares, BasisDeclared
	}

	complexByName := make(map[string][]*ifc.Quantity)
	var lengths []*ifc.Quantity
	for _, qs := range quantitySets {
		if qs == nil {
			continue
		}
		for _, q := range qs.Quantities {
			if q == nil {
				continue
			}
			switch q.Kind {
			case ifc.QuantityComplex:
				key := matchName(q.Name)
				complexByName[key] = append(complexByName[key], q)
			case ifc.QuantityLength:
				lengths = append(lengths, q)
			}
		}
	}

	seen := make(map[string]int)
	var total float64
	for i, c := range constituents {
		name := constituentName(c)
		k := seen[name]
		seen[name]++

		var width float64
		if matches := complexByName[name]; k < len(matches) {
			width = complexWidth(matches[k]) * scale
		}
		if width == 0 {
			width = lengthWidth(lengths, name) * scale
		}
		if width < 0 {
			width = 0
		}
		shares[i].Width = width
		total += width
	}

	basis := BasisEqual
	if total > 0 {
		for i := range shares {
			shares[i].Fraction = shares[i].Width / total
		}
		basis = BasisWidth
	}
	if sum(shares) < minFractionSum {
		equalize(shares)
		basis = BasisEqual
	}
	normalize(shares)
	return shares, basis
}

// declaredFractions fills shares from declared constituent fractions and
// reports whether any constituent declared one. Absent, zero, negative, and
// malformed fractions count as undeclared.
func declaredFractions(constituents []*ifc.Constituent, shares []Share) bool {
	declared := make([]bool, len(constituents))
	var total float64
	var undeclared int
	for i, c := range constituents {
		if c == nil {
			undeclared++
			continue
		}
		f, err := c.Fraction.Float()
		if err != nil || f <= 0 {
			undeclared++
			continue
		}
		shares[i].Fraction = f
		declared[i] = true
		total += f
	}
	if undeclared == len(constituents) {
		return false
	}

	var assigned float64
	for i := range shares {
		if declared[i] {
			shares[i].Fraction /= total
			assigned += shares[i].Fraction
		}
	}
	if undeclared > 0 {
		rest := (1 - assigned) / float64(undeclared)
		for i := range shares {
			if !declared[i] {
				shares[i].Fraction = rest
			}
		}
	}
	return true
}

// complexWidth returns the first numeric Width length sub-quantity.
func complexWidth(q *ifc.Quantity) float64 {
	for _, sub := range q.Quantities {
		if sub == nil || sub.Kind != ifc.QuantityLength || matchName(sub.Name) != widthQuantity {
			continue
		}
		if f, err := sub.Value.Float(); err == nil {
			return f
		}
	}
	return 0
}

// lengthWidth returns the first numeric length quantity named like the
// constituent or containing its name.
func lengthWidth(lengths []*ifc.Quantity, name string) float64 {
	for _, q := range lengths {
		qn := matchName(q.Name)
		if qn != name && !strings.Contains(qn, name) {
			continue
		}
		if f, err := q.Value.Float(); err == nil {
			return f
		}
	}
	return 0
}

// LayerFractions computes one share per layer of set, in layer order.
//
// When no layer has a positive thickness every layer weighs
// [DefaultLayerThickness] and the shares are equal. Otherwise thicknesses are
// multiplied by scale, and a layer whose thickness is absent or malformed
// weighs DefaultLayerThickness in the same total. A nil or empty set yields
// no shares.
func LayerFractions(set *ifc.LayerSet, scale float64) ([]Share, Basis) {
	if set == nil || len(set.Layers) == 0 {
		return nil, BasisEqual
	}
	shares := make([]Share, len(set.Layers))
	weights := make([]float64, len(set.Layers))

	measured := false
	for _, l := range set.Layers {
		if t, ok := layerThickness(l); ok && t > 0 {
			measured = true
			break
		}
	}

	var total float64
	for i, l := range set.Layers {
		t, ok := layerThickness(l)
		switch {
		case !measured || !ok:
			weights[i] = DefaultLayerThickness
		default:
			weights[i] = t * scale
			shares[i].Width = weights[i]
		}
		total += weights[i]
	}

	if total <= 0 {
		equalize(shares)
		return shares, BasisEqual
	}
	for i := range shares {
		shares[i].Fraction = weights[i] / total
	}
	normalize(shares)
	if !measured {
		return shares, BasisEqual
	}
	return shares, BasisThickness
}

func layerThickness(l *ifc.Layer) (float64, bool) {
	if l == nil {
		return 0, false
	}
	t, err := l.Thickness.Float()
	if err != nil || t < 0 {
		return 0, false
	}
	return t, true
}

func constituentName(c *ifc.Constituent) string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return unnamedConstituent
	}
	return matchName(c.Name)
}

func matchName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sum(shares []Share) float64 {
	var s float64
	for _, sh := range shares {
		s += sh.Fraction
	}
	return s
}

func equalize(shares []Share) {
	for i := range shares {
		shares[i].Fraction = 1 / float64(len(shares))
	}
}

// normalize scales fractions so they sum to 1. All-zero shares are left as is.
func normalize(shares []Share) {
	total := sum(shares)
	if total <= 0 {
		return
	}
	for i := range shares {
		shares[i].Fraction /= total
	}
}
