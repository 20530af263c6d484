package domain

// JoulesPerMegatonTNT is the TNT-equivalent conversion constant.
const JoulesPerMegatonTNT = 4.184e15

// ToTNTEquivalent converts joules to megatons of TNT.
func ToTNTEquivalent(energyJ float64) float64 {
	return energyJ / JoulesPerMegatonTNT
}

// ToKilotons converts joules to kilotons of TNT.
func ToKilotons(energyJ float64) float64 {
	return energyJ / (JoulesPerMegatonTNT / 1000)
}
