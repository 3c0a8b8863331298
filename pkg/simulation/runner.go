package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AskTimeout bounds every request/response exchange with a swarm actor.
const AskTimeout = 5 * time.Second

var ErrUnexpectedReply = errors.New("unexpected reply from swarm actor")

// SpawnSwarm builds a swarm from cfg and spawns its actor under name.
func SpawnSwarm(ctx context.Context, system actor.ActorSystem, name string, cfg *Config, snapshotCh chan<- *Snapshot) (*actor.PID, error) {
	swarm, err := NewSwarm(cfg, nil)
	if err != nil {
		return nil, err
	}
	pid, err := system.Spawn(ctx, name, NewSwarmActor(swarm, cfg.Mode, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn swarm: %w", err)
	}
	return pid, nil
}

// Tick asks the swarm to advance by dt.
func Tick(ctx context.Context, pid *actor.PID, dt time.Duration) error {
	return actor.Tell(ctx, pid, durationpb.New(dt))
}

// SelectMode switches the mode used by the next ticks.
func SelectMode(ctx context.Context, pid *actor.PID, mode Mode) error {
	return actor.Tell(ctx, pid, wrapperspb.String(string(mode)))
}

// SendUpdate ships a configuration update to the swarm.
func SendUpdate(ctx context.Context, pid *actor.PID, u Update) error {
	st, err := UpdateToStruct(u)
	if err != nil {
		return err
	}
	return actor.Tell(ctx, pid, st)
}

// RequestSnapshot asks the swarm for its current snapshot.
// Messages told earlier by the same caller are processed first.
func RequestSnapshot(ctx context.Context, pid *actor.PID) (*Snapshot, error) {
	reply, err := actor.Ask(ctx, pid, &emptypb.Empty{}, AskTimeout)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	st, ok := reply.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedReply, reply)
	}
	return SnapshotFromProto(st)
}

// RunHeadless spawns a swarm from cfg, runs ticks fixed steps of dt and
// returns the final snapshot. The swarm actor is stopped before returning.
func RunHeadless(ctx context.Context, system actor.ActorSystem, cfg *Config, ticks int, dt time.Duration) (*Snapshot, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("%w: %d ticks", ErrInvalidTimeStep, ticks)
	}
	pid, err := SpawnSwarm(ctx, system, "swarm", cfg, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = pid.Shutdown(ctx) }()

	for i := 0; i < ticks; i++ {
		if err := Tick(ctx, pid, dt); err != nil {
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}
	}
	return RequestSnapshot(ctx, pid)
}
