// Package testdata provides synthetic frames and observation sequences for
// integration tests.
package testdata

import (
	"github.com/ayusman/darpan/internal/detector"
	"gocv.io/x/gocv"
)

// SolidFrame creates a single-color BGR frame. The caller owns the Mat.
func SolidFrame(width, height int, value float64) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0),
		height, width, gocv.MatTypeCV8UC3,
	)
	return &mat
}

// TwoPersonMeeting returns per-frame observation lists simulating a short
// meeting: one engaged participant on the left, one stressed participant on
// the right, both drifting slightly between frames.
func TwoPersonMeeting(frames int) [][]detector.Observation {
	sequence := make([][]detector.Observation, frames)
	for i := 0; i < frames; i++ {
		drift := float64(i % 5)
		sequence[i] = []detector.Observation{
			detector.EngagedFace(detector.Box{X: 120 + drift, Y: 140, W: 110, H: 130}),
			detector.StressedFace(detector.Box{X: 700 - drift, Y: 150, W: 105, H: 125}),
		}
	}
	return sequence
}

// DepartingParticipant returns observations where a single participant is
// present for presentFrames frames and then leaves.
func DepartingParticipant(presentFrames, totalFrames int) [][]detector.Observation {
	sequence := make([][]detector.Observation, totalFrames)
	for i := 0; i < totalFrames; i++ {
		if i < presentFrames {
			sequence[i] = []detector.Observation{
				detector.EngagedFace(detector.Box{X: 400, Y: 200, W: 115, H: 135}),
			}
		} else {
			sequence[i] = nil
		}
	}
	return sequence
}
