package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

var ErrInvalidBounds = errors.New("invalid world bounds")

// Bounds is the rectangular world, [Min, Max) on both axes.
type Bounds struct {
	Min geometry.Vector2D `json:"min" toml:"min"`
	Max geometry.Vector2D `json:"max" toml:"max"`
}

// NewBounds returns the rectangle with upper-left corner (x, y) and the given size.
func NewBounds(x, y, width, height float64) Bounds {
	return Bounds{
		Min: geometry.Vector2D{X: x, Y: y},
		Max: geometry.Vector2D{X: x + width, Y: y + height},
	}
}

// Validate reports a rectangle that is empty, inverted or not finite.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s-%s is not finite", ErrInvalidBounds, b.Min, b.Max)
		}
	}
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return fmt.Errorf("%w: max %s must be greater than min %s", ErrInvalidBounds, b.Max, b.Min)
	}
	return nil
}

// Size returns the width and height of the world as a vector.
func (b Bounds) Size() geometry.Vector2D {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies in the closed rectangle [Min, Max].
// Boundary clamping places agents exactly on Max, hence the closed upper edge.
func (b Bounds) Contains(p geometry.Vector2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Wrap maps p onto the torus [Min, Max).
func (b Bounds) Wrap(p geometry.Vector2D) geometry.Vector2D {
	return geometry.Vector2D{
		X: wrapAxis(p.X, b.Min.X, b.Max.X),
		Y: wrapAxis(p.Y, b.Min.Y, b.Max.Y),
	}
}

func wrapAxis(v, lo, hi float64) float64 {
	if v >= lo && v < hi {
		return v
	}
	size := hi - lo
	m := math.Mod(v-lo, size)
	if m < 0 {
		m += size
	}
	// m+size can round up to size for tiny negative m
	if m >= size {
		m = 0
	}
	return lo + m
}

// axis returns a pointer to component i (0 = X, 1 = Y) of v.
func axis(v *geometry.Vector2D, i int) *float64 {
	if i == 0 {
		return &v.X
	}
	return &v.Y
}
