package economy

// BuildingHospital is the only building type with a welfare effect.
const BuildingHospital = "Hospital"

// Building is a passive structure record. CurrentPopulation is never
// assigned; no occupancy logic exists.
type Building struct {
	Type              string `json:"type" yaml:"type"`
	Capacity          int    `json:"capacity" yaml:"capacity"`
	CurrentPopulation int    `json:"current_population" yaml:"-"`
}

// NewBuilding creates an empty building of the given type.
func NewBuilding(buildingType string, capacity int) Building {
	return Building{Type: buildingType, Capacity: capacity}
}

// IsHospital reports whether the building heals citizens.
func (b Building) IsHospital() bool {
	return b.Type == BuildingHospital
}
