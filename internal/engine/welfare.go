package engine

// Welfare adjustments applied each year. Values are never clamped.
const (
	HardshipHappinessLoss = 10
	HardshipHealthLoss    = 5
	HospitalHealthGain    = 5
	HospitalHappinessGain = 2
)

// manageCitizens applies the hardship penalty when food runs low, then the
// care of every hospital in turn. Hospitals stack.
func (t *Town) manageCitizens() {
	if t.Food() < t.params.WelfareThreshold {
		for _, c := range t.Population {
			c.Happiness -= HardshipHappinessLoss
			c.Health -= HardshipHealthLoss
		}
	}

	for _, b := range t.Buildings {
		if !b.IsHospital() {
			continue
		}
		for _, c := range t.Population {
			c.Health += HospitalHealthGain
			c.Happiness += HospitalHappinessGain
		}
	}
}
