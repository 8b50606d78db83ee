package takeoff

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifcqto/pkg/ifc"
	"github.com/matzehuels/ifcqto/pkg/material"
	"github.com/matzehuels/ifcqto/pkg/quantity"
)

const (
	unnamedElement = "Unnamed"

	// Property carrying a descriptive layer string such as
	// "Brick (100mm) | Insulation (50mm)".
	layersPset     = "Material"
	layersProperty = "Layers"
)

// Assembler computes takeoff records for the elements of one model. It is
// safe for concurrent use.
type Assembler struct {
	ifc2x3      bool
	volumes     *quantity.VolumeCache
	apportioner *material.Apportioner
	logger      *log.Logger
}

// NewAssembler returns an assembler for m. A nil model assembles with a
// length scale of 1 and IFC4 classification rules. A nil logger discards
// output.
func NewAssembler(m *ifc.Model, logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	scale := 1.0
	var ifc2x3 bool
	if m != nil {
		scale = m.Units.LengthScaleToMM()
		ifc2x3 = m.IsIFC2X3()
	}
	return &Assembler{
		ifc2x3:      ifc2x3,
		volumes:     quantity.NewVolumeCache(),
		apportioner: material.NewApportioner(scale, logger),
		logger:      logger,
	}
}

// VolumeCache returns the volume memo of the assembler's model.
func (a *Assembler) VolumeCache() *quantity.VolumeCache {
	return a.volumes
}

// ComputeElementQuantities computes the volume, area, and material volumes of
// el at a length scale of 1.
func ComputeElementQuantities(el *ifc.Element) Quantities {
	return NewAssembler(nil, nil).Quantities(el)
}

// Quantities computes the volume, area, and material volumes of el.
func (a *Assembler) Quantities(el *ifc.Element) Quantities {
	vol := a.volumes.Get(el)
	q := Quantities{
		Volume:          roundVolume(vol),
		MaterialVolumes: a.materialVolumes(el, vol.Value()),
	}
	if area, ok := quantity.ReadArea(el); ok {
		q.Area = material.Round(area, QuantityDigits)
	}
	return q
}

// Element computes the full takeoff record of el.
func (a *Assembler) Element(el *ifc.Element) Element {
	q := a.Quantities(el)
	props, ordered := properties(el)

	out := Element{
		ID:              strconv.FormatInt(el.ID, 10),
		GlobalID:        el.GlobalID,
		Type:            el.Type,
		Name:            el.Name,
		Description:     el.Description,
		Properties:      props,
		Level:           level(el),
		Area:            q.Area,
		MaterialVolumes: q.MaterialVolumes,
	}
	if out.Name == "" {
		out.Name = unnamedElement
	}
	if q.Volume.Net != nil || q.Volume.Gross != nil {
		v := q.Volume
		out.Volume = &v
	}

	c := classify(el, a.ifc2x3, ordered)
	out.ClassificationID = c.id
	out.ClassificationName = c.name
	out.ClassificationSystem = c.system
	return out
}

// materialVolumes resolves every material association of el. volume is the
// unrounded element volume, or nil when unknown. It returns nil when no
// association yields an entry.
func (a *Assembler) materialVolumes(el *ifc.Element, volume *float64) *material.Volumes {
	vols := material.NewVolumes()
	for _, assoc := range el.Materials {
		for _, e := range a.apportioner.Apportion(assoc, el, volume) {
			vols.Add(e.Material, e.Record.Rounded(material.FractionDigits))
		}
	}
	if vols.Len() == 0 {
		a.layersFallback(el, volume, vols)
	}
	if vols.Len() == 0 {
		return nil
	}
	return vols
}

func (a *Assembler) layersFallback(el *ifc.Element, volume *float64, vols *material.Volumes) {
	p, ok := el.Property(layersPset, layersProperty)
	if !ok || p.Value.IsZero() {
		return
	}
	entries := material.LayerEntries(p.Value.String())
	if len(entries) == 0 {
		return
	}
	a.logger.Debug("materials from layer description", "element", el.ID, "layers", len(entries))
	for _, e := range entries {
		r := e.Record
		if volume != nil {
			v := *volume * r.Fraction
			r.Volume = &v
		}
		vols.Add(e.Material, r.Rounded(material.FractionDigits))
	}
}

func roundVolume(v quantity.Volume) quantity.Volume {
	var out quantity.Volume
	if v.Net != nil {
		n := material.Round(*v.Net, QuantityDigits)
		out.Net = &n
	}
	if v.Gross != nil {
		g := material.Round(*v.Gross, QuantityDigits)
		out.Gross = &g
	}
	return out
}
