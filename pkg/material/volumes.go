package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Rounding applied to apportioned values.
const FractionDigits = 5

// Record is the apportioned share of one material.
type Record struct {
	Fraction float64  `json:"fraction"`
	Volume   *float64 `json:"volume,omitempty"`
	Width    *float64 `json:"width,omitempty"`
}

// Rounded returns a copy with every value rounded to digits decimals.
func (r Record) Rounded(digits int) Record {
	out := Record{Fraction: Round(r.Fraction, digits)}
	if r.Volume != nil {
		v := Round(*r.Volume, digits)
		out.Volume = &v
	}
	if r.Width != nil {
		w := Round(*r.Width, digits)
		out.Width = &w
	}
	return out
}

// Round rounds x to digits decimals, halves away from zero.
func Round(x float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(x*p) / p
}

// Volumes maps material names to records, preserving insertion order.
// The zero value is an empty map ready to use.
type Volumes struct {
	names   []string
	records map[string]Record
}

// NewVolumes returns an empty map.
func NewVolumes() *Volumes {
	return &Volumes{records: make(map[string]Record)}
}

// Add stores r under name, or under "name (n)" with the smallest n >= 1 that
// is still free when name is taken. It returns the key used.
func (v *Volumes) Add(name string, r Record) string {
	if v.records == nil {
		v.records = make(map[string]Record)
	}
	key := name
	for n := 1; ; n++ {
		if _, taken := v.records[key]; !taken {
			break
		}
		key = fmt.Sprintf("%s (%d)", name, n)
	}
	v.names = append(v.names, key)
	v.records[key] = r
	return key
}

// Get returns the record stored under name.
func (v *Volumes) Get(name string) (Record, bool) {
	if v == nil {
		return Record{}, false
	}
	r, ok := v.records[name]
	return r, ok
}

// Len returns the number of records.
func (v *Volumes) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// Names returns the keys in insertion order.
func (v *Volumes) Names() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.names...)
}

// Sum returns the sum of all fractions.
func (v *Volumes) Sum() float64 {
	var s float64
	if v == nil {
		return s
	}
	for _, r := range v.records {
		s += r.Fraction
	}
	return s
}

// MarshalJSON writes the records as a JSON object in insertion order.
func (v *Volumes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range v.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		r, err := json.Marshal(v.records[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(r)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Keys are stored as
// given.
func (v *Volumes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("material volumes: expected object, got %v", tok)
	}
	*v = Volumes{records: make(map[string]Record)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("material volumes: expected key, got %v", tok)
		}
		var r Record
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("material volumes: %s: %w", name, err)
		}
		if _, dup := v.records[name]; !dup {
			v.names = append(v.names, name)
		}
		v.records[name] = r
	}
	_, err = dec.Token()
	return err
}
