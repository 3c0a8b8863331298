package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// MinAgents is the smallest swarm: group means exclude the agent itself.
const MinAgents = 2

var (
	ErrTooFewAgents    = errors.New("swarm needs at least 2 agents")
	ErrInvalidTimeStep = errors.New("invalid time step")
	ErrInvalidFPS      = errors.New("fps must be positive")
)

// AgentPosition is the read interface offered to the presentation layer.
type AgentPosition struct {
	ID       int
	Location geometry.Vector2D
}

// Swarm owns a fixed, ordered population of agents (slice index == agent id)
// and the aggregation step coupling them.
type Swarm struct {
	agents []*Agent
	params *Params
	bounds Bounds
	fps    float64
	ticks  uint64

	// buffers reused across ticks
	agg           Aggregates
	groupCenter   []geometry.Vector2D
	groupVelocity []geometry.Vector2D
}

// NewSwarm creates cfg.NumAgents agents at random positions and headings.
// rng is the only source of randomness of the swarm; nil seeds one from cfg.Seed.
func NewSwarm(cfg *Config, rng *rand.Rand) (*Swarm, error) {
	if cfg.NumAgents < MinAgents {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAgents, cfg.NumAgents)
	}
	if !(cfg.FPS > 0) || math.IsInf(cfg.FPS, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, cfg.FPS)
	}
	if err := cfg.World.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	params := cfg.Params()
	s := &Swarm{
		agents:        make([]*Agent, cfg.NumAgents),
		params:        &params,
		bounds:        cfg.World,
		fps:           cfg.FPS,
		groupCenter:   make([]geometry.Vector2D, cfg.NumAgents),
		groupVelocity: make([]geometry.Vector2D, cfg.NumAgents),
	}
	for i := range s.agents {
		s.agents[i] = newRandomAgent(i, s.params, s.bounds, s.fps, rng)
	}
	return s, nil
}

// NewSwarmFromAgents builds a swarm around agents created with NewAgent.
// Every agent must share params and carry its index as id.
func NewSwarmFromAgents(agents []*Agent, params *Params, bounds Bounds, fps float64) (*Swarm, error) {
	if len(agents) < MinAgents {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAgents, len(agents))
	}
	for i, a := range agents {
		if a.id != i {
			return nil, fmt.Errorf("agent at index %d has id %d", i, a.id)
		}
		if a.params != params {
			return nil, fmt.Errorf("agent %d does not share the swarm parameters", i)
		}
	}
	return &Swarm{
		agents:        agents,
		params:        params,
		bounds:        bounds,
		fps:           fps,
		groupCenter:   make([]geometry.Vector2D, len(agents)),
		groupVelocity: make([]geometry.Vector2D, len(agents)),
	}, nil
}

// Update runs one tick of dt milliseconds for the whole population in mode.
func (s *Swarm) Update(mode Mode, dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}

	switch mode {
	case ModeRandomWalk:
		for _, a := range s.agents {
			a.UpdateRandomWalk(dt)
		}
	case ModeBoid:
		s.updateBoid(dt)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.ticks++
	return nil
}

// updateBoid derives every agent's inputs before the first agent moves.
func (s *Swarm) updateBoid(dt float64) {
	n := len(s.agents)
	computeAggregates(s.agents, &s.agg)
	for i, a := range s.agents {
		s.groupCenter[i] = excludeSelf(s.agg.Center, a.location, n)
		s.groupVelocity[i] = excludeSelf(s.agg.MeanVelocity, a.velocity, n)
	}
	for i, a := range s.agents {
		a.UpdateBoid(s.groupCenter[i], s.groupVelocity[i], s.agg.Separation[i], dt)
	}
}

// Aggregates computes the group values for the current state without moving anyone.
func (s *Swarm) Aggregates() Aggregates {
	var agg Aggregates
	computeAggregates(s.agents, &agg)
	return agg
}

// GroupInputs returns the exclude-self group center and velocity of agent i
// for the current state.
func (s *Swarm) GroupInputs(i int) (center, velocity geometry.Vector2D) {
	agg := s.Aggregates()
	n := len(s.agents)
	a := s.agents[i]
	return excludeSelf(agg.Center, a.location, n), excludeSelf(agg.MeanVelocity, a.velocity, n)
}

// Positions returns (id, location) for every agent, in id order.
func (s *Swarm) Positions() []AgentPosition {
	out := make([]AgentPosition, len(s.agents))
	for i, a := range s.agents {
		out[i] = AgentPosition{ID: a.id, Location: a.location}
	}
	return out
}

// States returns the full kinematic state of every agent, in id order.
func (s *Swarm) States() []AgentState {
	out := make([]AgentState, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.State()
	}
	return out
}

// Agents exposes the population read-only by convention; callers must not
// mutate agents during a tick.
func (s *Swarm) Agents() []*Agent { return s.agents }

func (s *Swarm) Len() int { return len(s.agents) }
func (s *Swarm) Ticks() uint64 { return s.ticks }
func (s *Swarm) Bounds() Bounds { return s.bounds }
func (s *Swarm) Params() Params { return *s.params }
func (s *Swarm) FPS() float64 { return s.fps }

// Apply writes a configuration update to the live parameter set.
// It takes effect on the next tick for every agent.
func (s *Swarm) Apply(u Update) error {
	return s.params.Apply(u)
}

// Set writes a single parameter to the live parameter set.
func (s *Swarm) Set(mode Mode, name string, value any) error {
	return s.params.Set(mode, name, value)
}
