package game

import "sort"

// Ballot values accepted in the first voting stage.
const (
	BallotUp   = "up"
	BallotDown = "down"
)

// Vote1Result is the outcome of the up/down stage.
type Vote1Result struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Accusation is one row of the stage-2 ranking, most accused first.
type Accusation struct {
	Name    string `json:"name"`
	Votes   int    `json:"votes"`
	Role    Role   `json:"role"`
	IsGhost bool   `json:"is_ghost"`
}

// Vote2Result is the round verdict.
type Vote2Result struct {
	HasWon           bool         `json:"has_won"`
	HasTraitor       bool         `json:"has_traitor"`
	FinalTraitorName string       `json:"final_traitor_name"`
	Ranking          []Accusation `json:"ranking"`
}

// ballotRequired reports whether a player can still stall the given
// stage. The game master, ghosts and disconnected players are treated
// as auto-satisfied so they never block resolution.
func ballotRequired(p *GamePlayer) bool {
	return p.Role != RoleGameMaster && !p.IsGhost && p.Online()
}

// everyoneVoted reports whether the stage can resolve.
func everyoneVoted(players []*GamePlayer, stage int) bool {
	for _, p := range players {
		if !ballotRequired(p) {
			continue
		}
		if stage == 1 && p.Vote1 == nil {
			return false
		}
		if stage == 2 && p.Vote2 == nil {
			return false
		}
	}
	return true
}

// resolveVote1 tallies the up/down stage. The game master does not
// count; ghosts are excluded from the down count.
func resolveVote1(players []*GamePlayer) *Vote1Result {
	res := &Vote1Result{}
	for _, p := range players {
		if p.Role == RoleGameMaster {
			continue
		}
		if p.Vote1 != nil && *p.Vote1 == BallotUp {
			res.Up++
		} else if !p.IsGhost {
			res.Down++
		}
	}
	return res
}

// resolveVote2 tallies the accusation stage and adjudicates the round.
// The game master never appears as a candidate. Citizens win iff the
// top accused is the traitor (or, in a ghost round, the ghost) and
// strictly outpolled the runner-up; a ghost round with no accusations
// at all is also a citizen win.
func resolveVote2(players []*GamePlayer) *Vote2Result {
	for _, p := range players {
		if p.Vote2 == nil {
			continue
		}
		for _, accused := range players {
			if accused.Role != RoleGameMaster && accused.Name == *p.Vote2 {
				accused.NbVote2++
			}
		}
	}

	var candidates []*GamePlayer
	for _, p := range players {
		if p.Role != RoleGameMaster {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].NbVote2 > candidates[j].NbVote2
	})

	var traitor *GamePlayer
	for _, p := range players {
		if p.Role == RoleTraitor {
			traitor = p
			break
		}
	}

	res := &Vote2Result{HasTraitor: traitor != nil}
	for _, c := range candidates {
		res.Ranking = append(res.Ranking, Accusation{
			Name:    c.Name,
			Votes:   c.NbVote2,
			Role:    c.Role,
			IsGhost: c.IsGhost,
		})
	}

	var top, second *GamePlayer
	if len(candidates) > 0 {
		top = candidates[0]
	}
	if len(candidates) > 1 {
		second = candidates[1]
	}
	strictlyTop := top != nil && (second == nil || top.NbVote2 > second.NbVote2)

	if traitor != nil {
		if strictlyTop && top.Role == RoleTraitor {
			res.HasWon = true
			res.FinalTraitorName = top.Name
		} else {
			res.HasWon = false
			res.FinalTraitorName = traitor.Name
		}
		return res
	}

	switch {
	case strictlyTop && top.IsGhost:
		res.HasWon = true
		res.FinalTraitorName = top.Name
	case top == nil || (!top.IsGhost && top.NbVote2 == 0):
		// Nobody accused anyone; the table correctly trusted itself.
		res.HasWon = true
	default:
		res.HasWon = false
	}
	return res
}

// resetBallots clears the ballots of one stage for every player.
func resetBallots(players []*GamePlayer, stage int) {
	for _, p := range players {
		if stage == 1 {
			p.Vote1 = nil
		} else {
			p.Vote2 = nil
			p.NbVote2 = 0
		}
	}
}
