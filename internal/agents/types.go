// Package agents provides the citizen data model and batch spawning.
package agents

import "fmt"

// Starting welfare values for a newly created citizen.
const (
	StartingHealth    = 100
	StartingHappiness = 100
)

// Role is a citizen's occupation in the settlement.
type Role uint8

const (
	RoleFarmer Role = iota
	RoleBuilder
	RoleDoctor
	RoleTrader
)

// NumRoles is the number of roles a citizen can be assigned.
const NumRoles = 4

var roleNames = [NumRoles]string{"farmer", "builder", "doctor", "trader"}

// String returns the lowercase role name.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Skills maps a skill name to a level, e.g. {"farming": 5}.
type Skills map[string]int

// Clone returns an independent copy of the skill map.
func (s Skills) Clone() Skills {
	out := make(Skills, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Citizen is a passive record of one settlement inhabitant. Health and
// happiness are never clamped in either direction.
type Citizen struct {
	Skills    Skills `json:"skills"`
	Health    int    `json:"health"`
	Happiness int    `json:"happiness"`
	Role      Role   `json:"role"`
}
