package game

import (
	"math/rand"
	"sort"
)

// AssignRoles deals the roles for a new round: exactly one game master,
// then either the regular traitor count or (with ghostChance, only when
// traitorOptional is set) a single ghost and no traitor at all. The
// returned slice is reordered so that ghosts sort last; non-ghost order
// is whatever the final shuffle produced.
func AssignRoles(players []*GamePlayer, traitorOptional bool, ghostChance float64, rng *rand.Rand) []*GamePlayer {
	if len(players) == 0 {
		return players
	}

	for _, p := range players {
		p.Role = RoleCitizen
		p.IsGhost = false
		p.Vote1 = nil
		p.Vote2 = nil
		p.NbVote2 = 0
	}

	shuffle(players, rng)

	players[rng.Intn(len(players))].Role = RoleGameMaster

	eligible := len(players) - 1
	traitorCount := 1
	if eligible >= 6 {
		traitorCount = 2
	}

	if traitorOptional && rng.Float64() < ghostChance {
		markGhost(players, rng)
	} else {
		for i := 0; i < traitorCount; i++ {
			promoteFirstCitizen(players, RoleTraitor)
		}
	}

	shuffle(players, rng)
	sort.SliceStable(players, func(i, j int) bool {
		return !players[i].IsGhost && players[j].IsGhost
	})
	return players
}

func shuffle(players []*GamePlayer, rng *rand.Rand) {
	for i := len(players) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}
}

// promoteFirstCitizen flips the first still-citizen player to the given
// role. The list is already shuffled, so this is sampling without
// replacement.
func promoteFirstCitizen(players []*GamePlayer, role Role) {
	for _, p := range players {
		if p.Role == RoleCitizen {
			p.Role = role
			return
		}
	}
}

// markGhost picks one uniformly random citizen as the round's decoy.
func markGhost(players []*GamePlayer, rng *rand.Rand) {
	var citizens []*GamePlayer
	for _, p := range players {
		if p.Role == RoleCitizen {
			citizens = append(citizens, p)
		}
	}
	if len(citizens) == 0 {
		return
	}
	citizens[rng.Intn(len(citizens))].IsGhost = true
}
