package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"google.golang.org/protobuf/types/known/structpb"
)

// AgentState is the kinematic state of one agent as seen by the outside.
type AgentState struct {
	ID  int
	Pos geometry.Vector2D
	Vel geometry.Vector2D
}

// Snapshot is what the swarm actor publishes after each tick.
type Snapshot struct {
	RunID  string
	Tick   uint64
	Mode   Mode
	Agents []AgentState
}

// ToProto converts the snapshot into its protobuf envelope.
func (s *Snapshot) ToProto() (*structpb.Struct, error) {
	agents := make([]interface{}, len(s.Agents))
	for i, a := range s.Agents {
		agents[i] = map[string]interface{}{
			"id": a.ID,
			"position": map[string]interface{}{
				"x": a.Pos.X,
				"y": a.Pos.Y,
			},
			"velocity": map[string]interface{}{
				"x": a.Vel.X,
				"y": a.Vel.Y,
			},
		}
	}
	st, err := structpb.NewStruct(map[string]interface{}{
		"run_id": s.RunID,
		"tick":   s.Tick,
		"mode":   string(s.Mode),
		"agents": agents,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return st, nil
}

// SnapshotFromProto decodes the envelope produced by ToProto.
func SnapshotFromProto(st *structpb.Struct) (*Snapshot, error) {
	f := st.GetFields()
	mode, err := ParseMode(f["mode"].GetStringValue())
	if err != nil {
		return nil, err
	}
	s := &Snapshot{
		RunID: f["run_id"].GetStringValue(),
		Tick:  uint64(f["tick"].GetNumberValue()),
		Mode:  mode,
	}
	for _, v := range f["agents"].GetListValue().GetValues() {
		af := v.GetStructValue().GetFields()
		s.Agents = append(s.Agents, AgentState{
			ID:  int(af["id"].GetNumberValue()),
			Pos: vectorFromProto(af["position"]),
			Vel: vectorFromProto(af["velocity"]),
		})
	}
	return s, nil
}

func vectorFromProto(v *structpb.Value) geometry.Vector2D {
	f := v.GetStructValue().GetFields()
	return geometry.Vector2D{X: f["x"].GetNumberValue(), Y: f["y"].GetNumberValue()}
}
