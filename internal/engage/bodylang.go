package engage

import (
	"math"
	"time"

	"github.com/ayusman/darpan/internal/detector"
)

// Body language labels emitted by Classify.
const (
	LabelFidgeting      = "Fidgeting"
	LabelLeaningForward = "Leaning Forward"
	LabelSlouching      = "Slouching"
	LabelNodding        = "Nodding"
	LabelHeadShaking    = "Head Shaking"
	LabelArmsCrossed    = "Arms Crossed"
	LabelEngaged        = "Engaged"
	LabelListening      = "Listening"
)

// motionWindow is how many recent history entries feed the motion features.
const motionWindow = 5

// HistoryEntry records one matched detection's position and size.
type HistoryEntry struct {
	X, Y, W, H float64
	At         time.Time
}

// Baseline is a slowly adapting reference for a person's resting face size
// and vertical position, used to detect relative posture change.
type Baseline struct {
	W float64
	Y float64
}

// Classify infers a body language label from the current metrics and box,
// a short position history and the person's baseline. It is a fixed
// heuristic, not a learned model: the rules are evaluated in order and the
// first one that fires wins.
func Classify(m Metrics, box detector.Box, history []HistoryEntry, baseline Baseline) string {
	if len(history) < 3 {
		return LabelListening
	}

	window := history
	if len(window) > motionWindow {
		window = window[len(window)-motionWindow:]
	}

	avgMove := averageMove(window)
	verticalReversals, horizontalReversals := countReversals(window)

	switch {
	case avgMove > 15 && m.Stress > 60:
		return LabelFidgeting
	case box.W > baseline.W*1.2 && m.Attention > 50:
		return LabelLeaningForward
	case box.Y > baseline.Y+baseline.W*0.3 && m.Attention < 40:
		return LabelSlouching
	case verticalReversals >= 2 && m.Attention > 60:
		return LabelNodding
	case horizontalReversals >= 2 && m.Stress > 50:
		return LabelHeadShaking
	case m.Stress > 75 && avgMove < 2:
		return LabelArmsCrossed
	case m.Attention > 80:
		return LabelEngaged
	default:
		return LabelListening
	}
}

// averageMove returns the mean per-step absolute displacement across x and y.
func averageMove(window []HistoryEntry) float64 {
	if len(window) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(window); i++ {
		dx := math.Abs(window[i].X - window[i-1].X)
		dy := math.Abs(window[i].Y - window[i-1].Y)
		total += (dx + dy) / 2
	}

	return total / float64(len(window)-1)
}

// countReversals counts local direction reversals in y (nodding) and x
// (head shaking) across consecutive triples of the window.
func countReversals(window []HistoryEntry) (vertical, horizontal int) {
	for i := 2; i < len(window); i++ {
		dy1 := window[i-1].Y - window[i-2].Y
		dy2 := window[i].Y - window[i-1].Y
		if dy1*dy2 < 0 {
			vertical++
		}

		dx1 := window[i-1].X - window[i-2].X
		dx2 := window[i].X - window[i-1].X
		if dx1*dx2 < 0 {
			horizontal++
		}
	}
	return vertical, horizontal
}
