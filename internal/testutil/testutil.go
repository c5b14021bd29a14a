// Package testutil provides shared test utilities and synthetic fixtures.
//
// The generators produce deterministic two-marker tracking so tests across
// the tracking, calibration, tuning and pipeline packages agree on the
// geometry they exercise.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/headdirection/internal/hd"
)

// AssertAngleNear fails the test when the circular distance between got
// and want exceeds tol radians.
func AssertAngleNear(t testing.TB, got, want, tol float64) {
	t.Helper()
	if d := hd.Distance(got, want); d > tol {
		t.Errorf("angle = %.6f rad, want %.6f rad (circular distance %.6f > %.6f)", got, want, d, tol)
	}
}

// Timestamps returns n timestamps starting at 0 spaced by dt.
func Timestamps(n int, dt float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * dt
	}
	return t
}

// HeadingTracking places marker 2 at (cx[i], cy[i]) and marker 1 sep units
// ahead of it along heading[i], i.e. the marker-2 to marker-1 vector points
// along the heading.
func HeadingTracking(t, cx, cy, heading []float64, sep float64) hd.Tracking {
	n := len(t)
	tr := hd.Tracking{
		T:  append([]float64(nil), t...),
		X1: make([]float64, n),
		Y1: make([]float64, n),
		X2: append([]float64(nil), cx...),
		Y2: append([]float64(nil), cy...),
	}
	for i := range n {
		tr.X1[i] = cx[i] + sep*math.Cos(heading[i])
		tr.Y1[i] = cy[i] + sep*math.Sin(heading[i])
	}
	return tr
}

// RotatingTracking returns a stationary animal whose head turns at a
// constant angular velocity omega (rad/s), sampled every dt seconds.
func RotatingTracking(n int, dt, omega, sep float64) hd.Tracking {
	t := Timestamps(n, dt)
	cx := make([]float64, n)
	cy := make([]float64, n)
	heading := make([]float64, n)
	for i := range n {
		heading[i] = omega * t[i]
	}
	return HeadingTracking(t, cx, cy, heading, sep)
}

// CircleWalk returns an animal walking counter-clockwise around a circle of
// the given radius at the given speed while its head points headOffset
// radians away from the direction of travel.
func CircleWalk(n int, dt, radius, speed, headOffset, sep float64) hd.Tracking {
	t := Timestamps(n, dt)
	omega := speed / radius
	cx := make([]float64, n)
	cy := make([]float64, n)
	heading := make([]float64, n)
	for i := range n {
		phi := omega * t[i]
		cx[i] = radius * math.Cos(phi)
		cy[i] = radius * math.Sin(phi)
		heading[i] = phi + math.Pi/2 + headOffset
	}
	return HeadingTracking(t, cx, cy, heading, sep)
}

// SpikesWhile returns spike times at the given rate (Hz, regularly spaced)
// during every interval [t[i], t[i+1]) for which keep(angle[i]) is true.
func SpikesWhile(s hd.AngleSeries, rate float64, keep func(angle float64) bool) []float64 {
	var spikes []float64
	period := 1 / rate
	for i := 0; i < s.Len()-1; i++ {
		if !keep(s.Angles[i]) {
			continue
		}
		for k := 0; ; k++ {
			ts := s.Timestamps[i] + float64(k)*period
			if ts >= s.Timestamps[i+1] {
				break
			}
			spikes = append(spikes, ts)
		}
	}
	return spikes
}
