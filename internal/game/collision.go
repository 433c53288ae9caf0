package game

// occupied returns the set of cells covered by any living player's body,
// including tails. A snake's tail is still a hazard for the tick about to
// run: the reference simulation does not special-case the cell a tail is
// about to vacate.
func occupied(players map[string]*Player) map[Cell]struct{} {
	occ := make(map[Cell]struct{})
	for _, p := range players {
		if !p.Alive {
			continue
		}
		for _, c := range p.Body {
			occ[c] = struct{}{}
		}
	}
	return occ
}

// proposedHeads computes, for every living player, the cell its head would
// occupy if it moved one step in its current direction. It does not mutate
// any player.
func proposedHeads(players map[string]*Player) map[string]Cell {
	heads := make(map[string]Cell, len(players))
	for id, p := range players {
		if !p.Alive {
			continue
		}
		heads[id] = p.head().Add(p.Direction)
	}
	return heads
}

// deaths determines which players die this tick given their proposed head
// positions, the set of cells occupied by bodies before anyone moves, and
// the grid bounds. A player dies by leaving the grid, by moving into any
// cell currently covered by a body (its own included), or by colliding
// head-to-head with another moving player.
func deaths(heads map[string]Cell, occ map[Cell]struct{}, width, height int) map[string]struct{} {
	dead := make(map[string]struct{})

	for id, head := range heads {
		if !head.InBounds(width, height) {
			dead[id] = struct{}{}
			continue
		}
		if _, hit := occ[head]; hit {
			dead[id] = struct{}{}
		}
	}

	// Head-to-head: any two distinct players proposing the same cell both
	// die, even if that cell was otherwise clear.
	seen := make(map[Cell]string)
	for id, head := range heads {
		if other, ok := seen[head]; ok {
			dead[id] = struct{}{}
			dead[other] = struct{}{}
		} else {
			seen[head] = id
		}
	}

	return dead
}
