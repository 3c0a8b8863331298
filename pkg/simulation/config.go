package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// World and population defaults.
const (
	DefaultWorldWidth  = 500.0
	DefaultWorldHeight = 500.0
	DefaultNumAgents   = 100
	DefaultFPS         = 30.0
	DefaultMode        = ModeBoid
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

//go:embed config.schema.json
var configSchema string

// Config holds everything needed to build and drive a swarm.
type Config struct {
	World     Bounds  `json:"world" toml:"world"`
	NumAgents int     `json:"num_agents" toml:"num_agents"`
	FPS       float64 `json:"fps" toml:"fps"`
	Seed      uint64  `json:"seed" toml:"seed"`
	Mode      Mode    `json:"mode" toml:"mode"`

	RandomWalk RandomWalkParams `json:"random_walk" toml:"random_walk"`
	Boid       BoidParams       `json:"boid" toml:"boid"`
}

func DefaultConfig() *Config {
	p := DefaultParams()
	return &Config{
		World:      NewBounds(0, 0, DefaultWorldWidth, DefaultWorldHeight),
		NumAgents:  DefaultNumAgents,
		FPS:        DefaultFPS,
		Seed:       1,
		Mode:       DefaultMode,
		RandomWalk: p.RandomWalk,
		Boid:       p.Boid,
	}
}

// Params returns the behavior parameters of the config.
func (c *Config) Params() Params {
	return Params{RandomWalk: c.RandomWalk, Boid: c.Boid}
}

// Validate checks the rules the schema cannot express.
func (c *Config) Validate() error {
	if c.NumAgents < MinAgents {
		return fmt.Errorf("%w: got %d", ErrTooFewAgents, c.NumAgents)
	}
	if !(c.FPS > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidFPS, c.FPS)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if _, err := ParseBorderHandling(string(c.Boid.BorderHandling)); err != nil {
		return err
	}
	return c.World.Validate()
}

// LoadConfig reads a .json or .toml file over DefaultConfig, validates the
// document against the embedded schema and then the decoded Config.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".json":
		return ParseJSONConfig(b)
	case ".toml":
		return ParseTOMLConfig(b)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ParseJSONConfig decodes a JSON document over DefaultConfig.
func ParseJSONConfig(b []byte) (*Config, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ParseTOMLConfig decodes a TOML document over DefaultConfig.
// The document is validated against the same schema as JSON input.
func ParseTOMLConfig(b []byte) (*Config, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(b), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode config toml: %w", err)
	}
	// the schema validator wants JSON values, not TOML ones
	j, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config toml: %w", err)
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to convert config toml: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(b), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func validateDocument(doc interface{}) error {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
