package skirmish

// FogRadius is the Chebyshev distance a player's units can see when fog of
// war is enabled.
const FogRadius = 3

// VisibleTo projects the state to the units the given player can see: the
// player's own units plus anything within FogRadius of one of them.
func VisibleTo(gs *GameState, playerID string) *GameState {
	own := gs.UnitsOf(playerID)
	projected := &GameState{StartAt: gs.StartAt}
	for _, u := range gs.Units {
		if u.Owner == playerID {
			projected.Units = append(projected.Units, u)
			continue
		}
		for _, o := range own {
			if u.Position.ChebyshevDistance(o.Position) <= FogRadius {
				projected.Units = append(projected.Units, u)
				break
			}
		}
	}
	return projected
}
