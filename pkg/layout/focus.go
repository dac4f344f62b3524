package layout

import (
	"math"
	"math/rand"
)

// placeFocus arranges the arena around the focused node before a settle
// pass: the focus pins to the viewport center, direct neighbors pin
// evenly around a ring, second-degree neighbors around an outer ring, and
// the rest stays where it is or scatters to the periphery when it has no
// position yet. Reports false when the focused node is absent, in which
// case the arena is untouched.
func (a *arena) placeFocus(nodeID string, seed int64) bool {
	ci, ok := a.index[nodeID]
	if !ok {
		return false
	}

	cx, cy := a.width/2, a.height/2
	a.pin(ci, cx, cy)

	nbrs := a.neighborIndices()

	// Ring membership, in first-encounter order so placement is
	// deterministic for a fixed input graph.
	onRing := make(map[int]bool, len(nbrs[ci])+1)
	onRing[ci] = true

	ring1 := make([]int, 0, len(nbrs[ci]))
	for _, j := range nbrs[ci] {
		if !onRing[j] {
			onRing[j] = true
			ring1 = append(ring1, j)
		}
	}

	var ring2 []int
	for _, j := range ring1 {
		for _, k := range nbrs[j] {
			if !onRing[k] {
				onRing[k] = true
				ring2 = append(ring2, k)
			}
		}
	}

	placeRing(a, ring1, cx, cy, FocusRingRadius)
	placeRing(a, ring2, cx, cy, FocusOuterRingRadius)

	// Background nodes: keep prior positions for visual continuity,
	// scatter the rest beyond the rings. The seeded source keeps repeat
	// runs identical.
	rng := rand.New(rand.NewSource(seed))
	for i := range a.states {
		if onRing[i] || a.states[i].placed {
			continue
		}
		angle := rng.Float64() * 2 * math.Pi
		radius := FocusScatterMin + rng.Float64()*(FocusScatterMax-FocusScatterMin)
		a.place(i, cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}

	return true
}

// placeRing pins members evenly spaced on a circle, starting at angle 0.
func placeRing(a *arena, members []int, cx, cy, radius float64) {
	for k, i := range members {
		angle := 2 * math.Pi * float64(k) / float64(len(members))
		a.pin(i, cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}
}

// neighborIndices builds undirected adjacency lists over the resolved
// springs, deduplicated, in first-encounter order. Self-loops contribute
// nothing.
func (a *arena) neighborIndices() [][]int {
	nbrs := make([][]int, len(a.states))
	seen := make(map[[2]int]bool, 2*len(a.springs))

	for _, s := range a.springs {
		i, j := s[0], s[1]
		if i == j {
			continue
		}
		if !seen[[2]int{i, j}] {
			seen[[2]int{i, j}] = true
			nbrs[i] = append(nbrs[i], j)
		}
		if !seen[[2]int{j, i}] {
			seen[[2]int{j, i}] = true
			nbrs[j] = append(nbrs[j], i)
		}
	}

	return nbrs
}
