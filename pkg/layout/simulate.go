package layout

import "math"

// step advances the simulation by one iteration. i counts from 0 to
// total-1; the linear cooling schedule scales every force down as i
// grows, so early iterations untangle and late ones settle.
func (a *arena) step(i, total int, p Params) {
	n := len(a.states)
	if n == 0 {
		return
	}

	cooling := 1 - float64(i)/float64(total)
	temp := cooling * 0.5

	// Velocity decay.
	for k := range a.states {
		a.states[k].vx *= p.Friction
		a.states[k].vy *= p.Friction
	}

	// Repulsion over all unordered pairs, symmetric push-apart. The
	// denominator floor keeps close pairs from exploding; the linear
	// penalty enforces a minimum separation even as cooling fades.
	for j := 0; j < n; j++ {
		for k := j + 1; k < n; k++ {
			dx := a.states[k].x - a.states[j].x
			dy := a.states[k].y - a.states[j].y
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				dist = 1
			}

			force := p.Repulsion * cooling / math.Max(dist*dist, 100)
			if dist < p.MinDistance {
				force += (p.MinDistance - dist) * 2
			}

			ux, uy := dx/dist, dy/dist
			a.states[j].vx -= ux * force
			a.states[j].vy -= uy * force
			a.states[k].vx += ux * force
			a.states[k].vy += uy * force
		}
	}

	// Spring attraction along edges toward the ideal length. The force
	// changes sign when endpoints are closer than ideal, pushing apart.
	for _, s := range a.springs {
		j, k := s[0], s[1]
		dx := a.states[k].x - a.states[j].x
		dy := a.states[k].y - a.states[j].y
		dist := math.Hypot(dx, dy)
		if dist < 1 {
			dist = 1
		}

		force := (dist - p.IdealEdgeLength) * p.Attraction * cooling
		ux, uy := dx/dist, dy/dist
		a.states[j].vx += ux * force
		a.states[j].vy += uy * force
		a.states[k].vx -= ux * force
		a.states[k].vy -= uy * force
	}

	// Center gravity, weakening as graphs grow so large graphs spread
	// instead of clumping at the middle.
	cx, cy := a.width/2, a.height/2
	gravity := p.CenterPull * cooling * math.Max(0.3, 1-float64(n)/100)
	for k := range a.states {
		st := &a.states[k]
		st.vx += (cx - st.x) * gravity
		st.vy += (cy - st.y) * gravity
	}

	// Integration. Pins override forces entirely; everything else moves
	// by cooled velocity and stays inside the padding band.
	for k := range a.states {
		st := &a.states[k]
		if st.pinned {
			st.x, st.y = st.px, st.py
			continue
		}
		st.x += st.vx * temp
		st.y += st.vy * temp
		st.x = clamp(st.x, p.Padding, a.width-p.Padding)
		st.y = clamp(st.y, p.Padding, a.height-p.Padding)
	}
}

// runBatch executes iterations [start, end) of a total budget.
func (a *arena) runBatch(start, end, total int, p Params) {
	for i := start; i < end; i++ {
		a.step(i, total, p)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
