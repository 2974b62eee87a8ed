package pauli

// IsNoncontextual reports whether a term set admits a classical (noncontextual)
// hidden-variable model. The test follows the commutation-structure criterion:
// remove the terms that commute with every other term in the set, then require
// commutation to be transitive (an equivalence relation) on the remainder. The
// equivalence classes are the anticommuting cliques of the decomposition.
func IsNoncontextual(terms []Term) bool {
	// Split off the universally-commuting part.
	rest := make([]Term, 0, len(terms))
	for i, t := range terms {
		universal := true
		for j, u := range terms {
			if i != j && !Commute(t, u) {
				universal = false
				break
			}
		}
		if !universal {
			rest = append(rest, t)
		}
	}

	for i := range rest {
		for j := range rest {
			if i == j || !Commute(rest[i], rest[j]) {
				continue
			}
			for k := range rest {
				if k == i || k == j {
					continue
				}
				if Commute(rest[j], rest[k]) && !Commute(rest[i], rest[k]) {
					return false
				}
			}
		}
	}
	return true
}
