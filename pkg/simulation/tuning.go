package simulation

import (
	"fmt"
	"math"
)

// Slider positions of the tuning panel. Position SliderNeutral gives the
// default value, every step away multiplies or divides it by SliderRatio.
const (
	SliderMin     = 0
	SliderMax     = 20
	SliderNeutral = 10
	SliderRatio   = 1.2
)

// ScaledValue is the parameter value shown at slider position pos.
func ScaledValue(def float64, pos int) float64 {
	return def * math.Pow(SliderRatio, float64(pos-SliderNeutral))
}

// Tuner is the state of the tuning collaborator: one tab per mode, one
// slider per numeric parameter. It never touches a running swarm directly;
// callers ship Pending() to the swarm between ticks.
type Tuner struct {
	defaults  Params
	current   Params
	positions map[Mode]map[string]int
	mode      Mode
	dirty     bool
}

// NewTuner starts every slider at SliderNeutral with mode as the selected tab.
func NewTuner(defaults Params, mode Mode) *Tuner {
	t := &Tuner{
		defaults:  defaults,
		current:   defaults,
		positions: make(map[Mode]map[string]int),
		mode:      mode,
	}
	for _, m := range Modes() {
		t.positions[m] = make(map[string]int)
		for _, name := range NumericParams(m) {
			t.positions[m][name] = SliderNeutral
		}
	}
	return t
}

// Mode is the currently selected tab.
func (t *Tuner) Mode() Mode { return t.mode }

// SelectMode switches tab. It reports whether the mode changed.
func (t *Tuner) SelectMode(mode Mode) (bool, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return false, err
	}
	if mode == t.mode {
		return false, nil
	}
	t.mode = mode
	return true, nil
}

// Position returns the slider position of a numeric parameter.
func (t *Tuner) Position(mode Mode, name string) (int, error) {
	pos, ok := t.positions[mode][name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownParam, mode, name)
	}
	return pos, nil
}

// SetPosition moves a slider, clamped to [SliderMin, SliderMax], and
// returns the resulting parameter value.
func (t *Tuner) SetPosition(mode Mode, name string, pos int) (float64, error) {
	old, err := t.Position(mode, name)
	if err != nil {
		return 0, err
	}
	pos = min(max(pos, SliderMin), SliderMax)
	def, err := t.defaults.Get(mode, name)
	if err != nil {
		return 0, err
	}
	v := ScaledValue(def, pos)
	if pos == old {
		return v, nil
	}
	if err := t.current.Set(mode, name, v); err != nil {
		return 0, err
	}
	t.positions[mode][name] = pos
	t.dirty = true
	return v, nil
}

// SetEnum writes an enum parameter such as border_handling.
func (t *Tuner) SetEnum(mode Mode, name, value string) error {
	before := t.current.Boid.BorderHandling
	if err := t.current.Set(mode, name, value); err != nil {
		return err
	}
	if t.current.Boid.BorderHandling != before {
		t.dirty = true
	}
	return nil
}

// Values returns the parameter set the sliders currently describe.
func (t *Tuner) Values() Params { return t.current }

// Pending returns the full parameter set as an Update when something changed
// since the last call.
func (t *Tuner) Pending() (Update, bool) {
	if !t.dirty {
		return nil, false
	}
	t.dirty = false
	return t.current.ToUpdate(), true
}

// Reset puts every slider back to neutral.
func (t *Tuner) Reset() {
	t.current = t.defaults
	for m, names := range t.positions {
		for name := range names {
			t.positions[m][name] = SliderNeutral
		}
	}
	t.dirty = true
}
