package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultParams(), cfg.Params())
	assert.Equal(t, DefaultMode, cfg.Mode)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "flock.json", `{
		"world": {"min": {"x": 0, "y": 0}, "max": {"x": 800, "y": 600}},
		"num_agents": 42,
		"seed": 7,
		"mode": "random_walk",
		"boid": {"cohesion_weight": 0.001, "border_handling": "wrap"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, NewBounds(0, 0, 800, 600), cfg.World)
	assert.Equal(t, 42, cfg.NumAgents)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, ModeRandomWalk, cfg.Mode)
	assert.Equal(t, 0.001, cfg.Boid.CohesionWeight)
	assert.Equal(t, BorderWrap, cfg.Boid.BorderHandling)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, DefaultBoidSeparationWeight, cfg.Boid.SeparationWeight)
	assert.Equal(t, DefaultRandomWalkSpeed, cfg.RandomWalk.Speed)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeConfig(t, "flock.toml", `
num_agents = 12
fps = 60.0
mode = "boid"

[world.max]
x = 300.0
y = 200.0

[random_walk]
angular_speed = 0.5

[boid]
wall_buffer = 25.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.NumAgents)
	assert.Equal(t, 60.0, cfg.FPS)
	assert.Equal(t, ModeBoid, cfg.Mode)
	assert.Equal(t, NewBounds(0, 0, 300, 200), cfg.World)
	assert.Equal(t, 0.5, cfg.RandomWalk.AngularSpeed)
	assert.Equal(t, 25.0, cfg.Boid.WallBuffer)
	assert.Equal(t, DefaultBoidBorderHandling, cfg.Boid.BorderHandling)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"single agent", "a.json", `{"num_agents": 1}`},
		{"fractional agents", "b.json", `{"num_agents": 2.5}`},
		{"unknown mode", "c.json", `{"mode": "flock"}`},
		{"unknown border handling", "d.toml", "[boid]\nborder_handling = \"bounce\"\n"},
		{"unknown key", "e.json", `{"agents": 10}`},
		{"negative wall buffer", "f.toml", "[random_walk]\nwall_buffer = -1.0\n"},
		{"zero fps", "g.json", `{"fps": 0}`},
		{"inverted world", "h.json", `{"world": {"min": {"x": 10, "y": 10}, "max": {"x": 5, "y": 50}}}`},
		{"broken json", "i.json", `{"num_agents": `},
		{"broken toml", "j.toml", "num_agents = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_UnsupportedFormat(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "flock.yaml", "num_agents: 3\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseJSONConfig_ValidatesDecodedValues(t *testing.T) {
	// the schema accepts it, the decoded world is empty
	_, err := ParseJSONConfig([]byte(`{"world": {"max": {"x": 0, "y": 0}}}`))
	assert.ErrorIs(t, err, ErrInvalidBounds)
}
