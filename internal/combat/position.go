package combat

import "math"

// Position is a point in the junkyard. Mobs move on the ground plane (X/Z).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) DistanceTo(o Position) float64 {
	return distance(p, o)
}

func distance(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// moveToward steps from toward to by at most step on the ground plane without overshooting.
func moveToward(from, to Position, step float64) Position {
	dx := to.X - from.X
	dz := to.Z - from.Z
	d := math.Hypot(dx, dz)
	if d == 0 || step <= 0 {
		return from
	}
	if step >= d {
		return Position{X: to.X, Y: from.Y, Z: to.Z}
	}
	return Position{X: from.X + dx/d*step, Y: from.Y, Z: from.Z + dz/d*step}
}

// pushAway moves p directly away from origin by dist on the ground plane.
func pushAway(p, origin Position, dist float64) Position {
	dx := p.X - origin.X
	dz := p.Z - origin.Z
	d := math.Hypot(dx, dz)
	if d == 0 {
		return Position{X: p.X + dist, Y: p.Y, Z: p.Z}
	}
	return Position{X: p.X + dx/d*dist, Y: p.Y, Z: p.Z + dz/d*dist}
}
