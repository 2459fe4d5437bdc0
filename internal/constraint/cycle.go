package constraint

import "github.com/ptarrant/phaseline/internal/domain"

// WouldCreateCycle reports whether adding a predecessor→successor edge
// to the existing dependency set would close a cycle. The dependency
// graph must stay acyclic; creation is rejected up front rather than
// detected after the fact.
func WouldCreateCycle(deps []domain.Dependency, predecessorID, successorID string) bool {
	if predecessorID == successorID {
		return true
	}

	// A cycle forms iff the predecessor is already reachable from the
	// successor by walking successor edges.
	next := make(map[string][]string, len(deps))
	for _, d := range deps {
		next[d.PredecessorID] = append(next[d.PredecessorID], d.SuccessorID)
	}

	seen := map[string]bool{}
	stack := []string{successorID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == predecessorID {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, next[cur]...)
	}
	return false
}
