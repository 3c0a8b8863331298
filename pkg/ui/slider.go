package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal widget snapping to integer positions in [Min, Max].
type Slider struct {
	Label    string
	Pos      int
	Min, Max int
	X, Y     float64
	W, H     float64

	// ValueText is shown next to the label; the owner keeps it in sync with Pos.
	ValueText string
}

// NewSlider creates a slider at position pos.
func NewSlider(x, y, width float64, label string, min, max, pos int) *Slider {
	return &Slider{
		Label: label,
		Pos:   pos,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     width,
		H:     12,
	}
}

// Update moves the knob to the step nearest to the cursor while the left button is held inside.
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if float64(mx) < s.X || float64(mx) > s.X+s.W ||
		float64(my) < s.Y || float64(my) > s.Y+s.H {
		return
	}
	p := (float64(mx) - s.X) / s.W
	s.Pos = min(max(s.Min+int(math.Round(p*float64(s.Max-s.Min))), s.Min), s.Max)
}

// Draw renders the track, the filled part and one tick per step.
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	steps := s.Max - s.Min
	if steps <= 0 {
		return
	}
	ratio := float64(s.Pos-s.Min) / float64(steps)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	tick := color.RGBA{R: 50, G: 50, B: 55, A: 255}
	for i := 1; i < steps; i++ {
		x := float32(s.X + s.W*float64(i)/float64(steps))
		vector.StrokeLine(screen, x, float32(s.Y+s.H-3), x, float32(s.Y+s.H), 1, tick, false)
	}
}
