package ifc

import (
	"strings"
)

// Units carries the model's unit assignment. Length is a unit symbol or IFC
// unit name such as "mm", "m", "MILLIMETRE", or "METRE".
type Units struct {
	Length string
}

var lengthScaleToMM = map[string]float64{
	"mm":         1,
	"millimetre": 1,
	"millimeter": 1,
	"cm":         10,
	"centimetre": 10,
	"centimeter": 10,
	"m":          1000,
	"metre":      1000,
	"meter":      1000,
	"in":         25.4,
	"inch":       25.4,
	"ft":         304.8,
	"foot":       304.8,
}

// LengthScaleToMM returns the factor converting model length units to
// millimetres. Unknown or unset units yield 1.
func (u Units) LengthScaleToMM() float64 {
	key := strings.ToLower(strings.TrimSpace(u.Length))
	key = strings.ReplaceAll(key, " ", "")
	if s, ok := lengthScaleToMM[key]; ok {
		return s
	}
	return 1
}

// Model is a loaded element graph. It is immutable after construction.
type Model struct {
	Schema   string
	Units    Units
	Elements []*Element

	byID map[int64]*Element
}

// NewModel builds a model over elements. Elements keep their order; for
// duplicate ids the first element wins in lookups by id.
func NewModel(schema string, units Units, elements []*Element) *Model {
	m := &Model{
		Schema:   schema,
		Units:    units,
		Elements: elements,
		byID:     make(map[int64]*Element, len(elements)),
	}
	for _, el := range elements {
		if _, ok := m.byID[el.ID]; !ok {
			m.byID[el.ID] = el
		}
	}
	return m
}

// Element returns the element with the given id.
func (m *Model) Element(id int64) (*Element, bool) {
	el, ok := m.byID[id]
	return el, ok
}

// ByType returns the elements that are instances of any of the given classes
// or their subtypes, in model order. An element matching several classes is
// returned once. Blank class names are ignored.
func (m *Model) ByType(classes ...string) []*Element {
	var targets []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			targets = append(targets, c)
		}
	}
	var out []*Element
	for _, el := range m.Elements {
		for _, t := range targets {
			if el.IsA(t) {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// EntityCounts returns the number of elements per concrete class.
func (m *Model) EntityCounts() map[string]int {
	counts := make(map[string]int)
	for _, el := range m.Elements {
		counts[el.Type]++
	}
	return counts
}

// IsIFC2X3 reports whether the model uses the IFC2X3 schema, which names
// classification identifiers differently.
func (m *Model) IsIFC2X3() bool {
	return strings.Contains(strings.ToUpper(m.Schema), "2X3")
}
