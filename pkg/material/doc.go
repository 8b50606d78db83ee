// Package material apportions an element's volume across the materials of its
// cross-section.
//
// # Association Shapes
//
// [Apportioner.Apportion] dispatches over the closed set of IFC material
// associations:
//
//   - single material: the whole volume, fraction 1
//   - material list: equal shares, 1/N each
//   - layer set or layer set usage: shares by layer thickness ([LayerFractions])
//   - constituent set: declared fractions, else shares by width taken from
//     the element's complex quantities ([ConstituentFractions])
//
// Elements that only carry a descriptive layer string such as
// "Brick (100mm) | Insulation (50mm)" are handled by [ParseLayersString].
//
// # Normalization
//
// Every algorithm ends with a normalization pass so the fractions of one
// association sum to 1. When no usable measurement exists the volume is
// distributed equally. Widths are reported in millimetres and only where they
// were actually measured.
//
// # Names
//
// [Volumes] keeps material records in resolution order. When a material name
// repeats, later records are stored under "Name (1)", "Name (2)", and so on.
package material
