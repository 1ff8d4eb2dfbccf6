package game

import "slices"

// Pot represents a pot (main or side)
type Pot struct {
	Amount       int
	Eligible     []int // Player indexes eligible for this pot
	MaxPerPlayer int   // Contribution level that closes this pot
}

// PotManager manages main and side pots
type PotManager struct {
	pots  []Pot
	carry int // chips left over from the previous hand
}

// NewPotManager creates a pot manager whose main pot starts with carry.
func NewPotManager(players []*Player, carry int) *PotManager {
	return &PotManager{
		pots: []Pot{{
			Amount:   carry,
			Eligible: makeEligible(players, 0),
		}},
		carry: carry,
	}
}

// makeEligible lists the players still in the hand who put in at least
// level.
func makeEligible(players []*Player, level int) []int {
	eligible := make([]int, 0, len(players))
	for i, p := range players {
		if !p.Folded && p.TotalBet >= level {
			eligible = append(eligible, i)
		}
	}
	return eligible
}

// Total returns the total amount in all pots, including bets not yet
// collected this street.
func (pm *PotManager) Total(players []*Player) int {
	total := pm.carry
	for _, p := range players {
		total += p.TotalBet
	}
	return total
}

// CollectBets closes the street: current bets are already counted in
// TotalBet, so they are cleared and the pots recalculated.
func (pm *PotManager) CollectBets(players []*Player) {
	for _, p := range players {
		p.Bet = 0
	}
	pm.CalculateSidePots(players)
}

// CalculateSidePots splits everything contributed so far into pots. Each
// distinct all-in level of a player still in the hand closes a pot; chips
// above the last level form the final pot. Folded players' chips count
// towards every level they reached. The carry joins the first pot.
func (pm *PotManager) CalculateSidePots(players []*Player) {
	levels := make([]int, 0, len(players)+1)
	top := 0
	for _, p := range players {
		if p.AllInFlag && !p.Folded && p.TotalBet > 0 {
			levels = append(levels, p.TotalBet)
		}
		top = max(top, p.TotalBet)
	}
	levels = append(levels, top)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	pots := make([]Pot, 0, len(levels))
	previous := 0
	for _, level := range levels {
		pot := Pot{MaxPerPlayer: level}
		for _, p := range players {
			pot.Amount += min(p.TotalBet, level) - min(p.TotalBet, previous)
		}
		for i, p := range players {
			if !p.Folded && p.TotalBet > previous {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		previous = level

		switch {
		case pot.Amount == 0:
			continue
		case len(pot.Eligible) == 0 && len(pots) > 0:
			// Only folded players reached this level
			pots[len(pots)-1].Amount += pot.Amount
			continue
		}
		pots = append(pots, pot)
	}

	if len(pots) == 0 {
		pots = append(pots, Pot{Eligible: makeEligible(players, 0)})
	}
	pots[0].Amount += pm.carry
	pm.pots = pots
}

// GetPots returns the current pots
func (pm *PotManager) GetPots() []Pot {
	return pm.pots
}
