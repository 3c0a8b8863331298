package simulation

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// Mode selects which update path the whole population runs for one tick.
type Mode string

const (
	ModeRandomWalk Mode = "random_walk"
	ModeBoid       Mode = "boid"
)

// BorderHandling selects the boid-mode boundary policy.
type BorderHandling string

const (
	// BorderAvoid repels agents from the walls and keeps them inside the world.
	BorderAvoid BorderHandling = "avoid"
	// BorderWrap teleports agents crossing an edge to the opposite edge.
	BorderWrap BorderHandling = "wrap"
)

// Parameter names, as used by the configuration interface.
const (
	ParamSpeed             = "speed"
	ParamAngularSpeed      = "angular_speed"
	ParamWallBuffer        = "wall_buffer"
	ParamCohesionWeight    = "cohesion_weight"
	ParamSeparationWeight  = "separation_weight"
	ParamAlignmentWeight   = "alignment_weight"
	ParamBorderAvoidWeight = "border_avoid_weight"
	ParamBorderHandling    = "border_handling"
)

// Defaults for the behavior parameters.
const (
	DefaultRandomWalkSpeed        = 1.5
	DefaultRandomWalkAngularSpeed = math.Pi / 4
	DefaultRandomWalkWallBuffer   = 20.0

	DefaultBoidSpeed             = 1.5
	DefaultBoidCohesionWeight    = 0.0005
	DefaultBoidSeparationWeight  = 0.01
	DefaultBoidAlignmentWeight   = 1.0
	DefaultBoidBorderAvoidWeight = 0.5
	DefaultBoidWallBuffer        = 40.0
	DefaultBoidBorderHandling    = BorderAvoid
)

var (
	ErrUnknownMode    = errors.New("unknown mode")
	ErrUnknownParam   = errors.New("unknown parameter")
	ErrInvalidValue   = errors.New("invalid parameter value")
	ErrInvalidUpdate  = errors.New("invalid configuration update")
	ErrBorderHandling = errors.New("unknown border handling")
)

// RandomWalkParams drive UpdateRandomWalk.
type RandomWalkParams struct {
	Speed        float64 `json:"speed" toml:"speed"`
	AngularSpeed float64 `json:"angular_speed" toml:"angular_speed"`
	WallBuffer   float64 `json:"wall_buffer" toml:"wall_buffer"`
}

// BoidParams drive UpdateBoid.
// Speed is carried for parity with the random walk set; the speed cap of every
// agent is derived from RandomWalkParams.Speed at construction time.
type BoidParams struct {
	Speed             float64        `json:"speed" toml:"speed"`
	CohesionWeight    float64        `json:"cohesion_weight" toml:"cohesion_weight"`
	SeparationWeight  float64        `json:"separation_weight" toml:"separation_weight"`
	AlignmentWeight   float64        `json:"alignment_weight" toml:"alignment_weight"`
	BorderAvoidWeight float64        `json:"border_avoid_weight" toml:"border_avoid_weight"`
	WallBuffer        float64        `json:"wall_buffer" toml:"wall_buffer"`
	BorderHandling    BorderHandling `json:"border_handling" toml:"border_handling"`
}

// Params is the live parameter set shared by every agent of a swarm.
// It is read-only during a tick.
type Params struct {
	RandomWalk RandomWalkParams `json:"random_walk" toml:"random_walk"`
	Boid       BoidParams       `json:"boid" toml:"boid"`
}

// Update maps a mode to parameter names and their new values.
// Numeric parameters take float64 (or any Go integer/float), enum parameters take a string.
type Update map[Mode]map[string]any

var numericParams = map[Mode][]string{
	ModeRandomWalk: {ParamSpeed, ParamAngularSpeed, ParamWallBuffer},
	ModeBoid: {
		ParamSpeed, ParamCohesionWeight, ParamSeparationWeight,
		ParamAlignmentWeight, ParamBorderAvoidWeight, ParamWallBuffer,
	},
}

// Modes lists the supported modes in display order.
func Modes() []Mode {
	return []Mode{ModeRandomWalk, ModeBoid}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRandomWalk, ModeBoid:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ParseBorderHandling converts a policy name into a BorderHandling.
func ParseBorderHandling(s string) (BorderHandling, error) {
	switch b := BorderHandling(s); b {
	case BorderAvoid, BorderWrap:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBorderHandling, s)
	}
}

// NumericParams returns the names of the numeric parameters of mode, in display order.
func NumericParams(mode Mode) []string {
	names := numericParams[mode]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// DefaultParams returns the parameter set built from the Default* constants.
func DefaultParams() Params {
	return Params{
		RandomWalk: RandomWalkParams{
			Speed:        DefaultRandomWalkSpeed,
			AngularSpeed: DefaultRandomWalkAngularSpeed,
			WallBuffer:   DefaultRandomWalkWallBuffer,
		},
		Boid: BoidParams{
			Speed:             DefaultBoidSpeed,
			CohesionWeight:    DefaultBoidCohesionWeight,
			SeparationWeight:  DefaultBoidSeparationWeight,
			AlignmentWeight:   DefaultBoidAlignmentWeight,
			BorderAvoidWeight: DefaultBoidBorderAvoidWeight,
			WallBuffer:        DefaultBoidWallBuffer,
			BorderHandling:    DefaultBoidBorderHandling,
		},
	}
}

func (p *Params) field(mode Mode, name string) (*float64, error) {
	switch mode {
	case ModeRandomWalk:
		switch name {
		case ParamSpeed:
			return &p.RandomWalk.Speed, nil
		case ParamAngularSpeed:
			return &p.RandomWalk.AngularSpeed, nil
		case ParamWallBuffer:
			return &p.RandomWalk.WallBuffer, nil
		}
	case ModeBoid:
		switch name {
		case ParamSpeed:
			return &p.Boid.Speed, nil
		case ParamCohesionWeight:
			return &p.Boid.CohesionWeight, nil
		case ParamSeparationWeight:
			return &p.Boid.SeparationWeight, nil
		case ParamAlignmentWeight:
			return &p.Boid.AlignmentWeight, nil
		case ParamBorderAvoidWeight:
			return &p.Boid.BorderAvoidWeight, nil
		case ParamWallBuffer:
			return &p.Boid.WallBuffer, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParam, mode, name)
}

// Get returns the current value of a numeric parameter.
func (p *Params) Get(mode Mode, name string) (float64, error) {
	f, err := p.field(mode, name)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Set writes a single parameter. border_handling takes a string, everything else a finite number.
func (p *Params) Set(mode Mode, name string, value any) error {
	if mode == ModeBoid && name == ParamBorderHandling {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s.%s wants a string, got %T", ErrInvalidValue, mode, name, value)
		}
		b, err := ParseBorderHandling(s)
		if err != nil {
			return err
		}
		p.Boid.BorderHandling = b
		return nil
	}

	f, err := p.field(mode, name)
	if err != nil {
		return err
	}
	v, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("%w: %s.%s wants a number, got %T", ErrInvalidValue, mode, name, value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s.%s = %v", ErrInvalidValue, mode, name, v)
	}
	*f = v
	return nil
}

// Apply writes every entry of u. Either all entries are applied or none is.
func (p *Params) Apply(u Update) error {
	next := *p
	for mode, values := range u {
		for name, value := range values {
			if err := next.Set(mode, name, value); err != nil {
				return err
			}
		}
	}
	*p = next
	return nil
}

// ToUpdate returns the full content of p as an Update.
func (p *Params) ToUpdate() Update {
	u := make(Update, len(numericParams))
	for mode, names := range numericParams {
		values := make(map[string]any, len(names)+1)
		for _, name := range names {
			v, _ := p.Get(mode, name)
			values[name] = v
		}
		u[mode] = values
	}
	u[ModeBoid][ParamBorderHandling] = string(p.Boid.BorderHandling)
	return u
}

// ToStruct encodes p as a protobuf Struct keyed by mode then parameter name.
func (p *Params) ToStruct() (*structpb.Struct, error) {
	return UpdateToStruct(p.ToUpdate())
}

// UpdateToStruct encodes an Update as a protobuf Struct.
func UpdateToStruct(u Update) (*structpb.Struct, error) {
	m := make(map[string]any, len(u))
	for mode, values := range u {
		inner := make(map[string]any, len(values))
		for name, value := range values {
			if f, ok := toFloat(value); ok {
				inner[name] = f
				continue
			}
			inner[name] = value
		}
		m[string(mode)] = inner
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config update: %w", err)
	}
	return s, nil
}

// UpdateFromStruct decodes the protobuf form produced by UpdateToStruct.
func UpdateFromStruct(s *structpb.Struct) (Update, error) {
	u := make(Update)
	for modeName, v := range s.AsMap() {
		mode, err := ParseMode(modeName)
		if err != nil {
			return nil, err
		}
		values, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a mapping", ErrInvalidUpdate, modeName)
		}
		u[mode] = values
	}
	return u, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
