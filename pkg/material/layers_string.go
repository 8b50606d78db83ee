package material

import (
	"strconv"
	"strings"
)

// layerSeparator splits the segments of a descriptive layer string.
const layerSeparator = "|"

// ParseLayersString apportions a descriptive layer string of the form
// "Brick (100mm) | Insulation (50mm) | Plaster".
//
// Each segment is a material name optionally followed by a parenthesized
// thickness in millimetres. Segments without a readable thickness count as 0.
// When every thickness is 0 the named segments share equally; otherwise each
// fraction is its thickness over the total and the width is reported for
// segments with a positive thickness. Fractions and widths are rounded to
// [FractionDigits] decimals. Segments without a name are ignored.
func ParseLayersString(text string) *Volumes {
	out := NewVolumes()
	for _, e := range LayerEntries(text) {
		out.Add(e.Material, e.Rounded(FractionDigits))
	}
	return out
}

// LayerEntries parses text like [ParseLayersString] but returns one
// unrounded entry per named segment, in order, so callers can derive
// volumes before rounding.
func LayerEntries(text string) []Entry {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	type segment struct {
		name      string
		thickness float64
	}
	var segments []segment
	var total float64
	for _, raw := range strings.Split(text, layerSeparator) {
		name, thickness := parseSegment(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		segments = append(segments, segment{name, thickness})
		total += thickness
	}

	entries := make([]Entry, 0, len(segments))
	for _, s := range segments {
		e := Entry{Material: s.name}
		if total <= 0 {
			e.Fraction = 1 / float64(len(segments))
		} else {
			e.Fraction = s.thickness / total
			if s.thickness > 0 {
				w := s.thickness
				e.Width = &w
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// parseSegment splits "Name (N mm)" into its name and thickness. The
// thickness is read from the last parenthesized group and only when it
// carries an "mm" suffix.
func parseSegment(s string) (string, float64) {
	open := strings.LastIndex(s, "(")
	closing := strings.LastIndex(s, ")")
	if open < 0 || closing < 0 {
		return s, 0
	}
	name := strings.TrimSpace(s[:open])
	if closing < open {
		return name, 0
	}
	inner := strings.TrimSpace(s[open+1 : closing])
	if !strings.Contains(inner, "mm") {
		return name, 0
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(inner, "mm", "")), 64)
	if err != nil || t < 0 {
		return name, 0
	}
	return name, t
}
