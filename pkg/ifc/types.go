package ifc

// Root class of everything the model graph carries.
const TypeElement = "IfcElement"

// Class names used outside this package.
const (
	TypeBuildingStorey = "IfcBuildingStorey"
)

// supertypes maps an element class to its direct supertype. Classes missing
// from the table are treated as direct subtypes of IfcElement, since the
// graph only ever carries elements.
var supertypes = map[string]string{
	"IfcBuildingElement":            TypeElement,
	"IfcBuiltElement":               TypeElement,
	"IfcElementComponent":           TypeElement,
	"IfcFeatureElement":             TypeElement,
	"IfcDistributionElement":        TypeElement,
	"IfcFurnishingElement":          TypeElement,
	"IfcCivilElement":               TypeElement,
	"IfcGeographicElement":          TypeElement,
	"IfcTransportElement":           TypeElement,
	"IfcVirtualElement":             TypeElement,
	"IfcElementAssembly":            TypeElement,
	"IfcFeatureElementSubtraction":  "IfcFeatureElement",
	"IfcFeatureElementAddition":     "IfcFeatureElement",
	"IfcOpeningElement":             "IfcFeatureElementSubtraction",
	"IfcOpeningStandardCase":        "IfcOpeningElement",
	"IfcVoidingFeature":             "IfcFeatureElementSubtraction",
	"IfcEarthworksCut":              "IfcFeatureElementSubtraction",
	"IfcBeam":                       "IfcBuildingElement",
	"IfcBeamStandardCase":           "IfcBeam",
	"IfcBearing":                    "IfcBuildingElement",
	"IfcBuildingElementProxy":       "IfcBuildingElement",
	"IfcChimney":                    "IfcBuildingElement",
	"IfcColumn":                     "IfcBuildingElement",
	"IfcColumnStandardCase":         "IfcColumn",
	"IfcCovering":                   "IfcBuildingElement",
	"IfcCurtainWall":                "IfcBuildingElement",
	"IfcDeepFoundation":             "IfcBuildingElement",
	"IfcCaissonFoundation":          "IfcDeepFoundation",
	"IfcPile":                       "IfcDeepFoundation",
	"IfcDoor":                       "IfcBuildingElement",
	"IfcDoorStandardCase":           "IfcDoor",
	"IfcEarthworksElement":          "IfcBuildingElement",
	"IfcEarthworksFill":             "IfcEarthworksElement",
	"IfcFooting":                    "IfcBuildingElement",
	"IfcMember":                     "IfcBuildingElement",
	"IfcMemberStandardCase":         "IfcMember",
	"IfcPlate":                      "IfcBuildingElement",
	"IfcPlateStandardCase":          "IfcPlate",
	"IfcRailing":                    "IfcBuildingElement",
	"IfcRamp":                       "IfcBuildingElement",
	"IfcRampFlight":                 "IfcBuildingElement",
	"IfcRoof":                       "IfcBuildingElement",
	"IfcShadingDevice":              "IfcBuildingElement",
	"IfcSlab":                       "IfcBuildingElement",
	"IfcSlabStandardCase":           "IfcSlab",
	"IfcSlabElementedCase":          "IfcSlab",
	"IfcStair":                      "IfcBuildingElement",
	"IfcStairFlight":                "IfcBuildingElement",
	"IfcWall":                       "IfcBuildingElement",
	"IfcWallStandardCase":           "IfcWall",
	"IfcWallElementedCase":          "IfcWall",
	"IfcWindow":                     "IfcBuildingElement",
	"IfcWindowStandardCase":         "IfcWindow",
	"IfcBuildingElementPart":        "IfcElementComponent",
	"IfcReinforcingElement":         "IfcElementComponent",
	"IfcReinforcingBar":             "IfcReinforcingElement",
	"IfcReinforcingMesh":            "IfcReinforcingElement",
	"IfcTendon":                     "IfcReinforcingElement",
	"IfcDistributionFlowElement":    "IfcDistributionElement",
	"IfcEnergyConversionDevice":     "IfcDistributionFlowElement",
	"IfcSolarDevice":                "IfcEnergyConversionDevice",
	"IfcDistributionControlElement": "IfcDistributionElement",
}

// IsA reports whether class is typ or a subtype of typ. Matching is exact on
// IFC class names.
func IsA(class, typ string) bool {
	for seen := 0; class != "" && seen < 16; seen++ {
		if class == typ {
			return true
		}
		if class == TypeElement {
			return false
		}
		parent, ok := supertypes[class]
		if !ok {
			parent = TypeElement
		}
		class = parent
	}
	return false
}

// DefaultTargetClasses is the set of element classes included in a takeoff
// when no explicit selection is configured.
var DefaultTargetClasses = []string{
	"IfcBeam", "IfcBeamStandardCase", "IfcBearing", "IfcBuildingElementPart",
	"IfcBuildingElementProxy", "IfcCaissonFoundation", "IfcChimney",
	"IfcColumn", "IfcColumnStandardCase", "IfcCovering", "IfcCurtainWall",
	"IfcDeepFoundation", "IfcDoor", "IfcEarthworksCut", "IfcEarthworksFill",
	"IfcFooting", "IfcMember", "IfcPile", "IfcPlate", "IfcRailing", "IfcRamp",
	"IfcRampFlight", "IfcReinforcingBar", "IfcReinforcingElement",
	"IfcReinforcingMesh", "IfcRoof", "IfcSlab", "IfcSolarDevice", "IfcWall",
	"IfcWallStandardCase", "IfcWindow",
}
