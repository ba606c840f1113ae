package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// Conway returns the classic B3/S23 rule set
func Conway() *RuleSet {
	rs := &RuleSet{}
	for n := 0; n < MaxNeighbors+1; n++ {
		rs.Survive[n] = ApplyConwayRules(n, true)
		rs.Born[n] = ApplyConwayRules(n, false)
	}
	return rs
}
