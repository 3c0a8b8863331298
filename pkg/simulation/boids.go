package simulation

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// NeighborRadius is the distance under which two agents push each other apart.
const NeighborRadius = 30.0

// Aggregates are the per-tick group values computed before any agent moves.
type Aggregates struct {
	Center       geometry.Vector2D
	MeanVelocity geometry.Vector2D
	// Separation[i] is the summed displacement pointing away from every neighbor of agent i.
	Separation []geometry.Vector2D
}

// computeAggregates fills agg from the current state of agents.
// Separation is a single all-pairs pass: each pair (a, b) with a.id < b.id is
// visited once and both accumulators receive opposite contributions.
func computeAggregates(agents []*Agent, agg *Aggregates) {
	n := len(agents)
	if cap(agg.Separation) < n {
		agg.Separation = make([]geometry.Vector2D, n)
	}
	agg.Separation = agg.Separation[:n]
	clear(agg.Separation)

	var posSum, velSum geometry.Vector2D
	for _, a := range agents {
		posSum = posSum.Add(a.location)
		velSum = velSum.Add(a.velocity)
	}
	inv := 1 / float64(n)
	agg.Center = posSum.Mul(inv)
	agg.MeanVelocity = velSum.Mul(inv)

	radiusSq := NeighborRadius * NeighborRadius
	for i := 0; i < n; i++ {
		a := agents[i]
		for j := i + 1; j < n; j++ {
			b := agents[j]
			displacement := b.location.Sub(a.location)
			if displacement.LenSqr() < radiusSq {
				agg.Separation[i] = agg.Separation[i].Sub(displacement)
				agg.Separation[j] = agg.Separation[j].Add(displacement)
			}
		}
	}
}

// excludeSelf removes one member's own value from a mean over n members,
// giving the mean over the n-1 others.
func excludeSelf(mean, own geometry.Vector2D, n int) geometry.Vector2D {
	return mean.Mul(float64(n)).Sub(own).Mul(1 / float64(n-1))
}
