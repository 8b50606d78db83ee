// Package quantity reads representative volume and area facts for a building
// element from its attached quantity and property sets.
//
// Volumes come from Volume quantities named exactly NetVolume or GrossVolume,
// falling back to single-value properties of the same names when no quantity
// set carries either. Areas come from the first Area quantity whose name
// mentions an area. Lookups never fail: a missing or malformed value is
// simply treated as absent.
//
// [VolumeCache] memoizes [ReadVolume] per element id for the lifetime of one
// loaded model.
package quantity
