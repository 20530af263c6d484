package domain

// MaterialTableVersion identifies the density/strength constants below.
const MaterialTableVersion = "materials-v1"

// MaterialProperties holds the bulk properties used by the entry model.
type MaterialProperties struct {
	DensityKgM3 float64
	StrengthPa  float64 // ram pressure at which the body fragments
}

var materialTable = map[Material]MaterialProperties{
	MaterialRock:   {DensityKgM3: 3000, StrengthPa: 1.5e7},
	MaterialIron:   {DensityKgM3: 7800, StrengthPa: 5.0e7},
	MaterialNickel: {DensityKgM3: 8900, StrengthPa: 1.0e8},
}

// Materials lists the supported material classes in a stable order.
func Materials() []Material {
	return []Material{MaterialRock, MaterialIron, MaterialNickel}
}

// LookupMaterial returns the properties of m. Unknown tags yield an
// *InputError matching both ErrInvalidInput and ErrInvalidMaterial.
func LookupMaterial(m Material) (MaterialProperties, error) {
	props, ok := materialTable[m]
	if !ok {
		return MaterialProperties{}, &InputError{
			Field: "material",
			Value: string(m),
			Range: "one of rock, iron, nickel",
			Err:   ErrInvalidMaterial,
		}
	}
	return props, nil
}
