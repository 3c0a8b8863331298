package simulation

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestNewSwarm_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"no agents", func(c *Config) { c.NumAgents = 0 }, ErrTooFewAgents},
		{"single agent", func(c *Config) { c.NumAgents = 1 }, ErrTooFewAgents},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrInvalidFPS},
		{"nan fps", func(c *Config) { c.FPS = math.NaN() }, ErrInvalidFPS},
		{"empty world", func(c *Config) { c.World = NewBounds(0, 0, 0, 10) }, ErrInvalidBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := NewSwarm(cfg, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSwarm error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSwarm_RandomPopulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumAgents = 50
	s, err := NewSwarm(cfg, nil)
	if err != nil {
		t.Fatalf("NewSwarm: %v", err)
	}

	if s.Len() != 50 {
		t.Fatalf("Len = %d; want 50", s.Len())
	}
	wantSpeed := cfg.RandomWalk.Speed / cfg.FPS
	for i, a := range s.Agents() {
		if a.ID() != i {
			t.Errorf("agent at %d has id %d", i, a.ID())
		}
		if !cfg.World.Contains(a.Location()) {
			t.Errorf("agent %d starts outside the world at %v", i, a.Location())
		}
		if !floatClose(a.Velocity().Len(), wantSpeed, 1e-9) {
			t.Errorf("agent %d speed = %v; want %v", i, a.Velocity().Len(), wantSpeed)
		}
	}
}

func TestNewSwarmFromAgents_Checks(t *testing.T) {
	params := DefaultParams()
	other := DefaultParams()
	bounds := NewBounds(0, 0, 100, 100)
	rng := rand.New(rand.NewPCG(1, 1))

	swapped := []*Agent{
		NewAgent(1, geometry.Vector2D{}, geometry.Vector2D{}, &params, bounds, DefaultFPS, rng),
		NewAgent(0, geometry.Vector2D{}, geometry.Vector2D{}, &params, bounds, DefaultFPS, rng),
	}
	if _, err := NewSwarmFromAgents(swapped, &params, bounds, DefaultFPS); err == nil {
		t.Error("expected an error for ids out of order")
	}

	foreign := []*Agent{
		NewAgent(0, geometry.Vector2D{}, geometry.Vector2D{}, &params, bounds, DefaultFPS, rng),
		NewAgent(1, geometry.Vector2D{}, geometry.Vector2D{}, &other, bounds, DefaultFPS, rng),
	}
	if _, err := NewSwarmFromAgents(foreign, &params, bounds, DefaultFPS); err == nil {
		t.Error("expected an error for agents with their own parameters")
	}

	if _, err := NewSwarmFromAgents(swapped[:1], &params, bounds, DefaultFPS); !errors.Is(err, ErrTooFewAgents) {
		t.Errorf("error = %v; want ErrTooFewAgents", err)
	}
}

func TestSwarmUpdate_RejectsBadInput(t *testing.T) {
	s, _ := testSwarm(t, []geometry.Vector2D{{X: 10, Y: 10}, {X: 20, Y: 20}}, nil)

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := s.Update(ModeBoid, dt); !errors.Is(err, ErrInvalidTimeStep) {
			t.Errorf("Update(dt=%v) error = %v; want ErrInvalidTimeStep", dt, err)
		}
	}
	if err := s.Update(Mode("flock"), testDt); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Update(unknown mode) error = %v; want ErrUnknownMode", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("Ticks = %d after rejected updates; want 0", s.Ticks())
	}
}

func TestSwarmUpdate_ZeroDtKeepsPositions(t *testing.T) {
	s, _ := testSwarm(t,
		[]geometry.Vector2D{{X: 50, Y: 50}, {X: 60, Y: 50}},
		[]geometry.Vector2D{{X: 0.05, Y: 0}, {X: 0, Y: 0.05}},
	)
	before := s.Positions()

	if err := s.Update(ModeBoid, 0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for i, p := range s.Positions() {
		if !p.Location.Eq(before[i].Location) {
			t.Errorf("agent %d moved with dt=0: %v -> %v", i, before[i].Location, p.Location)
		}
	}
	if s.Ticks() != 1 {
		t.Errorf("Ticks = %d; want 1", s.Ticks())
	}
}

func TestSwarmUpdate_OverlappingPairAtRest(t *testing.T) {
	s, _ := testSwarm(t, []geometry.Vector2D{{X: 50, Y: 50}, {X: 50, Y: 50}}, nil)

	if err := s.Update(ModeBoid, testDt); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for _, a := range s.Agents() {
		if !a.Velocity().Eq(geometry.Vector2D{}) {
			t.Errorf("agent %d velocity = %v; want zero", a.ID(), a.Velocity())
		}
		if !a.Location().Eq(geometry.Vector2D{X: 50, Y: 50}) {
			t.Errorf("agent %d location = %v; want unchanged", a.ID(), a.Location())
		}
	}
}

func TestSwarmUpdate_InputsComputedBeforeMoving(t *testing.T) {
	// Agent 1 is pulled toward agent 0. If agent 0 moved first, agent 1
	// would see its new position instead of the pre-tick one.
	locations := []geometry.Vector2D{{X: 50, Y: 50}, {X: 80, Y: 50}}
	velocities := []geometry.Vector2D{{X: 0.09, Y: 0}, {}}
	s, params := testSwarm(t, locations, velocities)
	params.Boid.SeparationWeight = 0
	params.Boid.AlignmentWeight = 0
	params.Boid.BorderAvoidWeight = 0
	params.Boid.CohesionWeight = 0.001

	if err := s.Update(ModeBoid, testDt); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := locations[0].Sub(locations[1]).Mul(0.001 / DefaultFPS)
	if got := s.Agents()[1].Velocity(); !got.EqTol(want, 1e-12) {
		t.Errorf("agent 1 velocity = %v; want %v", got, want)
	}
}

func TestSwarmUpdate_StaysInsideAndCapped(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		border BorderHandling
	}{
		{"random walk", ModeRandomWalk, BorderAvoid},
		{"boid avoid", ModeBoid, BorderAvoid},
		{"boid wrap", ModeBoid, BorderWrap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.World = NewBounds(0, 0, 200, 150)
			cfg.NumAgents = 40
			cfg.Boid.BorderHandling = tt.border
			s, err := NewSwarm(cfg, rand.New(rand.NewPCG(11, 12)))
			if err != nil {
				t.Fatalf("NewSwarm: %v", err)
			}

			for tick := 0; tick < 500; tick++ {
				if err := s.Update(tt.mode, testDt); err != nil {
					t.Fatalf("tick %d: %v", tick, err)
				}
				for _, a := range s.Agents() {
					if a.Velocity().Len() > a.MaxSpeed()+geometry.Epsilon {
						t.Fatalf("tick %d agent %d: |v| = %v exceeds %v", tick, a.ID(), a.Velocity().Len(), a.MaxSpeed())
					}
					if !cfg.World.Contains(a.Location()) {
						t.Fatalf("tick %d agent %d: location %v outside %v-%v", tick, a.ID(), a.Location(), cfg.World.Min, cfg.World.Max)
					}
				}
			}
		})
	}
}

func TestSwarmUpdate_DeterministicWithSeed(t *testing.T) {
	run := func() []AgentPosition {
		cfg := DefaultConfig()
		cfg.NumAgents = 20
		cfg.Seed = 42
		s, err := NewSwarm(cfg, nil)
		if err != nil {
			t.Fatalf("NewSwarm: %v", err)
		}
		for i := 0; i < 100; i++ {
			mode := ModeBoid
			if i%2 == 0 {
				mode = ModeRandomWalk
			}
			if err := s.Update(mode, testDt); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		return s.Positions()
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("agent %d diverged: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSwarmApply_TakesEffectNextTick(t *testing.T) {
	s, _ := testSwarm(t,
		[]geometry.Vector2D{{X: 50, Y: 50}, {X: 50, Y: 50}},
		[]geometry.Vector2D{{X: 0.05, Y: 0}, {X: 0.05, Y: 0}},
	)

	err := s.Apply(Update{ModeBoid: {ParamAlignmentWeight: 0.0, ParamBorderHandling: "wrap"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := s.Params().Boid.BorderHandling; got != BorderWrap {
		t.Errorf("BorderHandling = %q; want wrap", got)
	}
	for _, a := range s.Agents() {
		if a.params.Boid.AlignmentWeight != 0 {
			t.Errorf("agent %d does not see the new alignment weight", a.ID())
		}
	}

	// With alignment disabled the co-moving pair keeps its velocity.
	if err := s.Update(ModeBoid, testDt); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for _, a := range s.Agents() {
		if !a.Velocity().EqTol(geometry.Vector2D{X: 0.05, Y: 0}, 1e-12) {
			t.Errorf("agent %d velocity = %v; want unchanged", a.ID(), a.Velocity())
		}
	}

	if err := s.Set(ModeRandomWalk, "bogus", 1.0); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("Set error = %v; want ErrUnknownParam", err)
	}
}
