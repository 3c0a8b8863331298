package viewer

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
)

const (
	PanelWidth  = 280.0
	agentRadius = 3.0
)

var (
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	agentColor = color.RGBA{R: 100, G: 200, B: 255, A: 255}
)

// paramSlider ties a panel slider to one numeric parameter.
type paramSlider struct {
	mode   simulation.Mode
	name   string
	widget *ui.Slider
}

// Game renders the swarm owned by a SwarmActor and forwards tuning changes to it.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	swarmPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot

	cfg   *simulation.Config
	tuner *simulation.Tuner

	// UI Controls
	panel   *ui.TabPanel
	sliders []paramSlider
	wrapBox *ui.Checkbox

	lastTick time.Time

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the swarm actor on system and builds the tuning panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem) (*Game, error) {
	snapshotCh := make(chan *simulation.Snapshot, 1)
	pid, err := simulation.SpawnSwarm(ctx, system, "swarm", cfg, snapshotCh)
	if err != nil {
		return nil, err
	}

	size := cfg.World.Size()
	g := &Game{
		ctx:        ctx,
		System:     system,
		swarmPID:   pid,
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{Mode: cfg.Mode},
		cfg:        cfg,
		tuner:      simulation.NewTuner(cfg.Params(), cfg.Mode),
		panel:      ui.NewTabPanel(size.X, 0, PanelWidth, size.Y, "Behavior"),
	}

	for i, mode := range simulation.Modes() {
		page := g.panel.AddPage(string(mode))
		for _, name := range simulation.NumericParams(mode) {
			w := page.AddSlider(g.panel, name, simulation.SliderMin, simulation.SliderMax, simulation.SliderNeutral)
			g.sliders = append(g.sliders, paramSlider{mode: mode, name: name, widget: w})
		}
		if mode == simulation.ModeBoid {
			g.wrapBox = page.AddCheckbox(g.panel, "wrap borders", cfg.Boid.BorderHandling == simulation.BorderWrap)
		}
		if mode == cfg.Mode {
			g.panel.Select(i)
		}
	}
	g.panel.OnSelect = g.selectMode
	g.syncSliders()
	return g, nil
}

func (g *Game) selectMode(index int) {
	mode := simulation.Modes()[index]
	changed, err := g.tuner.SelectMode(mode)
	if err != nil || !changed {
		return
	}
	if err := simulation.SelectMode(g.ctx, g.swarmPID, mode); err != nil {
		g.System.Logger().Warnf("mode switch not delivered: %v", err)
	}
}

// syncSliders refreshes every slider from the tuner.
func (g *Game) syncSliders() {
	values := g.tuner.Values()
	for _, s := range g.sliders {
		pos, _ := g.tuner.Position(s.mode, s.name)
		v, _ := values.Get(s.mode, s.name)
		s.widget.Pos = pos
		s.widget.ValueText = fmt.Sprintf("%.4g", v)
	}
	g.wrapBox.Value = values.Boid.BorderHandling == simulation.BorderWrap
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()
	for _, s := range g.sliders {
		if pos, _ := g.tuner.Position(s.mode, s.name); pos == s.widget.Pos {
			continue
		}
		v, err := g.tuner.SetPosition(s.mode, s.name, s.widget.Pos)
		if err != nil {
			g.System.Logger().Warnf("slider %s.%s: %v", s.mode, s.name, err)
			continue
		}
		s.widget.ValueText = fmt.Sprintf("%.4g", v)
	}
	if g.wrapBox.Toggled() {
		policy := simulation.BorderAvoid
		if g.wrapBox.Value {
			policy = simulation.BorderWrap
		}
		_ = g.tuner.SetEnum(simulation.ModeBoid, simulation.ParamBorderHandling, string(policy))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.tuner.Reset()
		g.syncSliders()
	}

	// 2. Ship configuration changes, they land between two ticks
	if u, ok := g.tuner.Pending(); ok {
		if err := simulation.SendUpdate(g.ctx, g.swarmPID, u); err != nil {
			g.System.Logger().Warnf("config update not delivered: %v", err)
		}
	}

	// 3. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
	}

	// 4. Trigger Simulation Step with the real elapsed time
	now := time.Now()
	dt := time.Second / time.Duration(ebiten.TPS())
	if !g.lastTick.IsZero() {
		dt = now.Sub(g.lastTick)
	}
	g.lastTick = now
	if err := simulation.Tick(g.ctx, g.swarmPID, dt); err != nil {
		g.System.Logger().Warnf("tick not delivered: %v", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)

	origin := g.cfg.World.Min
	for _, a := range g.lastState.Agents {
		p := a.Pos.Sub(origin)
		vector.FillCircle(screen, float32(p.X), float32(p.Y), agentRadius, agentColor, true)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nTick: %d\nMode: %s\n\nUpdate: %.2fms\nDraw:   %.2fms\n\n[R] reset sliders",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		g.lastState.Mode,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

// Layout is the world plus the tuning panel on its right.
func (g *Game) Layout(w, h int) (int, int) {
	size := g.cfg.World.Size()
	return int(size.X + PanelWidth), int(size.Y)
}
