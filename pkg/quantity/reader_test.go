package quantity

import (
	"sync"
	"testing"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

func volumeQ(name string, v ifc.Value) *ifc.Quantity {
	return &ifc.Quantity{Name: name, Kind: ifc.QuantityVolume, Value: v}
}

func areaQ(name string, v float64) *ifc.Quantity {
	return &ifc.Quantity{Name: name, Kind: ifc.QuantityArea, Value: ifc.Number(v)}
}

func ptrEq(p *float64, want float64) bool {
	return p != nil && *p == want
}

func TestReadVolumeFromQuantities(t *testing.T) {
	el := &ifc.Element{ID: 1, QuantitySets: []*ifc.QuantitySet{{
		Name: "Qto_WallBaseQuantities",
		Quantities: []*ifc.Quantity{
			volumeQ("NetVolume", ifc.Number(10)),
			volumeQ("GrossVolume", ifc.Number(12)),
			volumeQ("netvolume", ifc.Number(99)), // case-sensitive
			{Name: "NetVolume", Kind: ifc.QuantityArea, Value: ifc.Number(98)},
		},
	}}}

	v := ReadVolume(el)
	if !ptrEq(v.Net, 10) {
		t.Errorf("Net = %v, want 10", v.Net)
	}
	if !ptrEq(v.Gross, 12) {
		t.Errorf("Gross = %v, want 12", v.Gross)
	}
}

func TestReadVolumeSkipsMalformed(t *testing.T) {
	el := &ifc.Element{QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{
		volumeQ("NetVolume", ifc.Text("n/a")),
		volumeQ("GrossVolume", ifc.Number(3.5)),
	}}}}

	v := ReadVolume(el)
	if v.Net != nil {
		t.Errorf("Net = %v, want nil", *v.Net)
	}
	if !ptrEq(v.Gross, 3.5) {
		t.Errorf("Gross = %v, want 3.5", v.Gross)
	}
}

func TestReadVolumePropertyFallback(t *testing.T) {
	el := &ifc.Element{
		QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{volumeQ("Other", ifc.Number(1))}}},
		PropertySets: []*ifc.PropertySet{{Name: "Pset", Properties: []ifc.Property{
			{Name: "NetVolume", Value: ifc.Text("4.25")},
			{Name: "GrossVolume"},
		}}},
	}

	v := ReadVolume(el)
	if !ptrEq(v.Net, 4.25) {
		t.Errorf("Net = %v, want 4.25", v.Net)
	}
	if v.Gross != nil {
		t.Errorf("Gross = %v, want nil", *v.Gross)
	}
}

func TestReadVolumeNoFallbackWhenQuantityFound(t *testing.T) {
	el := &ifc.Element{
		QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{volumeQ("GrossVolume", ifc.Number(2))}}},
		PropertySets: []*ifc.PropertySet{{Properties: []ifc.Property{{Name: "NetVolume", Value: ifc.Number(7)}}}},
	}

	v := ReadVolume(el)
	if v.Net != nil {
		t.Errorf("Net = %v, want nil (properties consulted only when no quantity matched)", *v.Net)
	}
}

func TestReadVolumeEmpty(t *testing.T) {
	v := ReadVolume(&ifc.Element{})
	if v.Net != nil || v.Gross != nil || v.Value() != nil {
		t.Errorf("ReadVolume(empty) = %+v, want all nil", v)
	}
}

func TestVolumeValue(t *testing.T) {
	zero, net, gross := 0.0, 5.0, 6.0
	tests := []struct {
		name string
		v    Volume
		want *float64
	}{
		{"net preferred", Volume{Net: &net, Gross: &gross}, &net},
		{"gross fallback", Volume{Gross: &gross}, &gross},
		{"zero net falls through", Volume{Net: &zero, Gross: &gross}, &gross},
		{"all zero", Volume{Net: &zero, Gross: &zero}, nil},
		{"none", Volume{}, nil},
	}

	for _, tt := range tests {
		got := tt.v.Value()
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("%s: Value() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadAreaFirstMatchWins(t *testing.T) {
	el := &ifc.Element{QuantitySets: []*ifc.QuantitySet{
		{Quantities: []*ifc.Quantity{
			{Name: "Width", Kind: ifc.QuantityLength, Value: ifc.Number(0.3)},
			areaQ("Gross Side Area", 20),
		}},
		{Quantities: []*ifc.Quantity{areaQ("NetSideArea", 18)}},
	}}

	got, ok := ReadArea(el)
	if !ok || got != 20 {
		t.Errorf("ReadArea = %v, %v; want 20, true", got, ok)
	}
}

func TestReadAreaSkipsUnmatched(t *testing.T) {
	el := &ifc.Element{QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{
		areaQ("Footprint", 3),
		{Name: "NetArea", Kind: ifc.QuantityArea, Value: ifc.Text("bad")},
		areaQ("Net Area", 7.5),
	}}}}

	got, ok := ReadArea(el)
	if !ok || got != 7.5 {
		t.Errorf("ReadArea = %v, %v; want 7.5, true", got, ok)
	}

	if _, ok := ReadArea(&ifc.Element{}); ok {
		t.Error("ReadArea on element without quantities should report false")
	}
}

func TestVolumeCache(t *testing.T) {
	c := NewVolumeCache()
	el := &ifc.Element{ID: 42, QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{
		volumeQ("NetVolume", ifc.Number(1.5)),
	}}}}

	first := c.Get(el)
	second := c.Get(el)
	if !ptrEq(first.Net, 1.5) || !ptrEq(second.Net, 1.5) {
		t.Fatalf("Get = %+v, %+v", first, second)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats = %d hits, %d misses; want 1, 1", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", c.Len())
	}
}

func TestVolumeCacheConcurrent(t *testing.T) {
	c := NewVolumeCache()
	els := make([]*ifc.Element, 50)
	for i := range els {
		els[i] = &ifc.Element{ID: int64(i), QuantitySets: []*ifc.QuantitySet{{Quantities: []*ifc.Quantity{
			volumeQ("GrossVolume", ifc.Number(float64(i))),
		}}}}
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, el := range els {
				if v := c.Get(el); !ptrEq(v.Gross, float64(el.ID)) {
					t.Errorf("Get(%d) = %v", el.ID, v.Gross)
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() != len(els) {
		t.Errorf("Len = %d, want %d", c.Len(), len(els))
	}
}
