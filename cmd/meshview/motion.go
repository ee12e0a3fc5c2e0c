package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Spin is a rotation velocity that decays to rest on a critically damped
// spring, so an impulse spins a model and lets it coast to a stop.
type Spin struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

// NewSpin creates a spin updated fps times per second.
func NewSpin(fps int) Spin {
	return Spin{
		// frequency 4 decays in about a second without overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Impulse adds to the current velocity.
func (s *Spin) Impulse(v float64) {
	s.Velocity += v
}

// Step returns the angle to rotate by this frame and decays the velocity.
func (s *Spin) Step() float64 {
	delta := s.Velocity
	s.Velocity, s.accel = s.spring.Update(s.Velocity, s.accel, 0)
	if math.Abs(s.Velocity) < 1e-5 && math.Abs(s.accel) < 1e-5 {
		s.Velocity, s.accel = 0, 0
	}
	return delta
}

// Speed is the camera fly speed. Scrolling changes the target and the
// current speed eases toward it.
type Speed struct {
	Current, Target float64
	Min, Max        float64

	spring harmonica.Spring
	vel    float64
}

// NewSpeed creates a speed starting at initial, clamped to [lo, hi].
func NewSpeed(fps int, initial, lo, hi float64) Speed {
	initial = min(max(initial, lo), hi)
	return Speed{
		Current: initial,
		Target:  initial,
		Min:     lo,
		Max:     hi,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
}

// Scale multiplies the target speed by f.
func (s *Speed) Scale(f float64) {
	s.Target = min(max(s.Target*f, s.Min), s.Max)
}

// Step advances the easing by one frame.
func (s *Speed) Step() {
	s.Current, s.vel = s.spring.Update(s.Current, s.vel, s.Target)
	s.Current = min(max(s.Current, s.Min), s.Max)
}
