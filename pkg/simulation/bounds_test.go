package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name   string
		b      Bounds
		wantOK bool
	}{
		{"default world", NewBounds(0, 0, DefaultWorldWidth, DefaultWorldHeight), true},
		{"offset world", NewBounds(-50, -50, 100, 100), true},
		{"zero width", NewBounds(0, 0, 0, 100), false},
		{"inverted", Bounds{Min: geometry.Vector2D{X: 10, Y: 10}, Max: geometry.Vector2D{X: 0, Y: 20}}, false},
		{"infinite", NewBounds(0, 0, math.Inf(1), 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v; want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("Validate() = %v; want ErrInvalidBounds", err)
			}
		})
	}
}

func TestBoundsWrap(t *testing.T) {
	b := NewBounds(0, 0, 100, 50)
	tests := []struct {
		in, want geometry.Vector2D
	}{
		{geometry.Vector2D{X: 10, Y: 10}, geometry.Vector2D{X: 10, Y: 10}},
		{geometry.Vector2D{X: 100, Y: 50}, geometry.Vector2D{X: 0, Y: 0}},
		{geometry.Vector2D{X: 103, Y: -2}, geometry.Vector2D{X: 3, Y: 48}},
		{geometry.Vector2D{X: -250, Y: 120}, geometry.Vector2D{X: 50, Y: 20}},
	}
	for _, tt := range tests {
		got := b.Wrap(tt.in)
		if !got.EqTol(tt.want, 1e-9) {
			t.Errorf("Wrap(%v) = %v; want %v", tt.in, got, tt.want)
		}
		if got.X < b.Min.X || got.X >= b.Max.X || got.Y < b.Min.Y || got.Y >= b.Max.Y {
			t.Errorf("Wrap(%v) = %v is not in [Min, Max)", tt.in, got)
		}
	}

	// a value just below Min must not land on Max
	if got := b.Wrap(geometry.Vector2D{X: -1e-18, Y: 0}); got.X >= b.Max.X {
		t.Errorf("Wrap of tiny negative x = %v; want < %v", got.X, b.Max.X)
	}
}

func TestBoundsContains(t *testing.T) {
	b := NewBounds(0, 0, 10, 10)
	for _, p := range []geometry.Vector2D{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 0}} {
		if !b.Contains(p) {
			t.Errorf("Contains(%v) = false", p)
		}
	}
	for _, p := range []geometry.Vector2D{{X: -0.1, Y: 5}, {X: 5, Y: 10.1}} {
		if b.Contains(p) {
			t.Errorf("Contains(%v) = true", p)
		}
	}
}
