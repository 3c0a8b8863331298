package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Random-walk heading changes happen every period, drawn per agent in
// [MinDirectionChangePeriod, MaxDirectionChangePeriod) milliseconds.
const (
	MinDirectionChangePeriod = 1000.0
	MaxDirectionChangePeriod = 2000.0
)

// Agent owns the kinematic state of one entity of the swarm.
// Locations are world units, velocities world units per millisecond.
type Agent struct {
	id       int
	location geometry.Vector2D
	velocity geometry.Vector2D
	maxSpeed float64

	params *Params
	bounds Bounds
	fps    float64
	rng    *rand.Rand

	// random-walk cadence
	clock                 float64
	lastDirectionChange   float64
	directionChangePeriod float64
}

// NewAgent creates an agent at an explicit state.
// maxSpeed is fixed here from params.RandomWalk.Speed, whatever mode will run later.
func NewAgent(id int, location, velocity geometry.Vector2D, params *Params, bounds Bounds, fps float64, rng *rand.Rand) *Agent {
	maxSpeed := 2 * params.RandomWalk.Speed / fps
	return &Agent{
		id:                    id,
		location:              location,
		velocity:              velocity.ClampMagnitude(maxSpeed),
		maxSpeed:              maxSpeed,
		params:                params,
		bounds:                bounds,
		fps:                   fps,
		rng:                   rng,
		directionChangePeriod: MinDirectionChangePeriod + rng.Float64()*(MaxDirectionChangePeriod-MinDirectionChangePeriod),
	}
}

// newRandomAgent places an agent uniformly inside bounds with a uniform heading
// and a speed of RandomWalk.Speed / fps.
func newRandomAgent(id int, params *Params, bounds Bounds, fps float64, rng *rand.Rand) *Agent {
	size := bounds.Size()
	location := geometry.Vector2D{
		X: bounds.Min.X + rng.Float64()*size.X,
		Y: bounds.Min.Y + rng.Float64()*size.Y,
	}
	velocity := geometry.NewVectorPolar(params.RandomWalk.Speed/fps, rng.Float64()*2*math.Pi)
	return NewAgent(id, location, velocity, params, bounds, fps, rng)
}

func (a *Agent) ID() int { return a.id }
func (a *Agent) Location() geometry.Vector2D { return a.location }
func (a *Agent) Velocity() geometry.Vector2D { return a.velocity }
func (a *Agent) MaxSpeed() float64 { return a.maxSpeed }

// State returns a copy of the kinematic state for presentation.
func (a *Agent) State() AgentState {
	return AgentState{ID: a.id, Pos: a.location, Vel: a.velocity}
}

// ============================================================================
// Random walk
// ============================================================================

// UpdateRandomWalk advances the agent by dt milliseconds of stochastic drift.
func (a *Agent) UpdateRandomWalk(dt float64) {
	p := a.params.RandomWalk

	a.clock += dt
	if a.clock-a.lastDirectionChange > a.directionChangePeriod {
		angle := (a.rng.Float64()*2 - 1) * p.AngularSpeed
		a.velocity = a.velocity.Rotate(angle)
		a.lastDirectionChange = a.clock
	}

	// wall force and bounce both look at the position before integration
	force := a.wallForce(p.WallBuffer)
	a.bounce()

	a.velocity = a.velocity.Add(force.Mul(dt)).ClampMagnitude(a.maxSpeed)
	a.location = a.location.Add(a.velocity.Mul(dt))
	a.bounce()
}

// wallForce is the per-axis repulsion 1/d - 1/buffer (never negative) from
// both sides, pointing inward. Sides already reached (d <= 0) contribute nothing.
func (a *Agent) wallForce(buffer float64) geometry.Vector2D {
	var force geometry.Vector2D
	if buffer <= 0 {
		return force
	}
	for i := 0; i < 2; i++ {
		pos := *axis(&a.location, i)
		lower := pos - *axis(&a.bounds.Min, i)
		upper := *axis(&a.bounds.Max, i) - pos
		f := axis(&force, i)
		if lower > 0 {
			*f += math.Max(0, 1/lower-1/buffer)
		}
		if upper > 0 {
			*f -= math.Max(0, 1/upper-1/buffer)
		}
	}
	return force
}

// bounce reflects the velocity component of every crossed bound away from it
// and clamps the position exactly onto that bound.
func (a *Agent) bounce() {
	for i := 0; i < 2; i++ {
		pos := axis(&a.location, i)
		vel := axis(&a.velocity, i)
		lo, hi := *axis(&a.bounds.Min, i), *axis(&a.bounds.Max, i)
		switch {
		case *pos < lo:
			*pos = lo
			*vel = math.Abs(*vel)
		case *pos > hi:
			*pos = hi
			*vel = -math.Abs(*vel)
		}
	}
}

// ============================================================================
// Boid
// ============================================================================

// UpdateBoid advances the agent by dt milliseconds of flocking.
// groupCenter and groupVelocity are the means over every other agent,
// separation is the summed displacement away from close neighbors.
func (a *Agent) UpdateBoid(groupCenter, groupVelocity, separation geometry.Vector2D, dt float64) {
	p := a.params.Boid

	cohesion := groupCenter.Sub(a.location).Mul(p.CohesionWeight / a.fps)
	apart := separation.Mul(p.SeparationWeight / a.fps)
	alignment := groupVelocity.Mul(p.AlignmentWeight / a.fps)
	force := cohesion.Add(apart).Add(alignment)

	if p.BorderHandling != BorderWrap {
		force = force.Add(a.borderAvoidForce(p.BorderAvoidWeight, p.WallBuffer))
	}

	a.velocity = a.velocity.Add(force).ClampMagnitude(a.maxSpeed)
	a.location = a.location.Add(a.velocity.Mul(dt))

	if p.BorderHandling == BorderWrap {
		a.location = a.bounds.Wrap(a.location)
	} else {
		a.bounce()
	}
}

// borderAvoidForce pushes the agent inward on every axis.
// On a reached or crossed bound it reverses the outward velocity component
// (a 2*|v| kick) and pins the position onto the bound; inside the buffer the
// push is weight * min(1/d, maxSpeed).
func (a *Agent) borderAvoidForce(weight, buffer float64) geometry.Vector2D {
	var force geometry.Vector2D
	for i := 0; i < 2; i++ {
		pos := axis(&a.location, i)
		vel := *axis(&a.velocity, i)
		lo, hi := *axis(&a.bounds.Min, i), *axis(&a.bounds.Max, i)
		f := axis(&force, i)

		lower := *pos - lo
		upper := hi - *pos
		switch {
		case lower <= 0:
			*pos = lo
			if vel < 0 {
				*f += 2 * math.Abs(vel)
			}
		case lower < buffer:
			*f += weight * math.Min(1/lower, a.maxSpeed)
		}
		switch {
		case upper <= 0:
			*pos = hi
			if vel > 0 {
				*f -= 2 * math.Abs(vel)
			}
		case upper < buffer:
			*f -= weight * math.Min(1/upper, a.maxSpeed)
		}
	}
	return force
}
