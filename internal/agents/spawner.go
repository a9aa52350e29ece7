// Citizen spawning: default welfare and a random role per citizen.
package agents

import (
	"github.com/talgya/outpost/internal/entropy"
)

// NewCitizen creates a citizen with the given skills, full health and
// happiness, and a role drawn uniformly from the four roles.
func NewCitizen(skills Skills, src entropy.Source) *Citizen {
	return &Citizen{
		Skills:    skills,
		Health:    StartingHealth,
		Happiness: StartingHappiness,
		Role:      Role(src.IntN(NumRoles)),
	}
}

// Spawner creates batches of citizens sharing a skill template.
type Spawner struct {
	src    entropy.Source
	skills Skills
}

// NewSpawner creates a citizen spawner. Each spawned citizen receives its
// own copy of skills.
func NewSpawner(src entropy.Source, skills Skills) *Spawner {
	return &Spawner{src: src, skills: skills}
}

// SpawnPopulation creates count citizens.
func (s *Spawner) SpawnPopulation(count int) []*Citizen {
	citizens := make([]*Citizen, 0, count)
	for i := 0; i < count; i++ {
		citizens = append(citizens, NewCitizen(s.skills.Clone(), s.src))
	}
	return citizens
}
