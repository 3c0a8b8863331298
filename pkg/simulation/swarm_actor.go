package simulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SwarmActor exclusively owns a Swarm. Its mailbox serialises ticks,
// mode switches and configuration writes, so no tick ever overlaps another
// and configuration only changes between ticks.
//
// Messages:
//   - *durationpb.Duration: run one tick of that wall-clock duration
//   - *wrapperspb.StringValue: select the mode for the next ticks
//   - *structpb.Struct: configuration update, mode -> parameter -> value
//   - *emptypb.Empty: reply with the current snapshot (Ask)
type SwarmActor struct {
	swarm      *Swarm
	mode       Mode
	runID      string
	snapshotCh chan<- *Snapshot

	// --- Telemetry ---
	tickCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*SwarmActor)(nil)

// NewSwarmActor wraps swarm. snapshotCh may be nil when nobody renders.
func NewSwarmActor(swarm *Swarm, mode Mode, snapshotCh chan<- *Snapshot) *SwarmActor {
	return &SwarmActor{
		swarm:       swarm,
		mode:        mode,
		runID:       uuid.NewString(),
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (s *SwarmActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Swarm %s ready: %d agents in %s mode", s.runID, s.swarm.Len(), s.mode)
	return nil
}

func (s *SwarmActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("Swarm actor %s started", ctx.Self().Name())

	case *durationpb.Duration:
		dt := float64(msg.AsDuration()) / float64(time.Millisecond)
		if err := s.swarm.Update(s.mode, dt); err != nil {
			ctx.Logger().Errorf("tick rejected: %v", err)
			return
		}
		s.logTickRate(ctx)
		s.pushSnapshot()

	case *wrapperspb.StringValue:
		mode, err := ParseMode(msg.GetValue())
		if err != nil {
			ctx.Logger().Warnf("mode switch rejected: %v", err)
			return
		}
		if mode != s.mode {
			ctx.Logger().Infof("mode: %s → %s", s.mode, mode)
			s.mode = mode
		}

	case *structpb.Struct:
		u, err := UpdateFromStruct(msg)
		if err == nil {
			err = s.swarm.Apply(u)
		}
		if err != nil {
			ctx.Logger().Warnf("config update rejected: %v", err)
			return
		}
		ctx.Logger().Debugf("config update applied: %d modes", len(u))

	case *emptypb.Empty:
		st, err := s.Snapshot().ToProto()
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(st)

	default:
		ctx.Unhandled()
	}
}

func (s *SwarmActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Swarm %s stopped after %d ticks", s.runID, s.swarm.Ticks())
	return nil
}

// Snapshot builds the current snapshot of the owned swarm.
func (s *SwarmActor) Snapshot() *Snapshot {
	return &Snapshot{
		RunID:  s.runID,
		Tick:   s.swarm.Ticks(),
		Mode:   s.mode,
		Agents: s.swarm.States(),
	}
}

func (s *SwarmActor) pushSnapshot() {
	if s.snapshotCh == nil {
		return
	}
	select {
	case s.snapshotCh <- s.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (s *SwarmActor) logTickRate(ctx *actor.ReceiveContext) {
	s.tickCount++
	if time.Since(s.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | Agents: %d | Mode: %s", s.tickCount, s.swarm.Len(), s.mode)
		s.tickCount = 0
		s.lastLogTime = time.Now()
	}
}
