package engage

import (
	"time"

	"github.com/ayusman/darpan/internal/detector"
)

// Smoothing weights. The baseline deliberately adapts two orders of
// magnitude slower than the box and metrics: it tracks a person's resting
// posture while box and metrics follow their immediate state.
const (
	baselineKeep = 0.99
	baselineMix  = 0.01
	smoothKeep   = 0.6
	smoothMix    = 0.4
)

// Track is the persistent record for one inferred person. It is owned
// exclusively by a Manager; external consumers only ever see Snapshot
// copies.
type Track struct {
	id        int
	box       detector.Box
	metrics   Metrics
	history   []HistoryEntry
	baseline  Baseline
	missing   int
	estimator *Estimator

	historyCap int
}

// Snapshot is a read-only point-in-time copy of one track, emitted once per
// frame per surviving track.
type Snapshot struct {
	ID           int          `json:"id"`
	Box          detector.Box `json:"box"`
	Metrics      Metrics      `json:"metrics"`
	BadSign      bool         `json:"badSign"`
	BodyLanguage string       `json:"bodyLanguage"`
}

func newTrack(id int, obs detector.Observation, now time.Time, historyCap int) *Track {
	t := &Track{
		id:         id,
		box:        obs.Box,
		baseline:   Baseline{W: obs.Box.W, Y: obs.Box.Y},
		estimator:  NewEstimator(),
		historyCap: historyCap,
		history:    make([]HistoryEntry, 0, historyCap),
	}
	t.pushHistory(obs.Box, now)
	t.metrics = t.estimator.Update(obs)
	return t
}

// update absorbs one matched detection into the track.
func (t *Track) update(obs detector.Observation, now time.Time) {
	t.missing = 0
	t.pushHistory(obs.Box, now)

	t.baseline.W = baselineKeep*t.baseline.W + baselineMix*obs.Box.W
	t.baseline.Y = baselineKeep*t.baseline.Y + baselineMix*obs.Box.Y

	t.box.X = smoothKeep*t.box.X + smoothMix*obs.Box.X
	t.box.Y = smoothKeep*t.box.Y + smoothMix*obs.Box.Y
	t.box.W = smoothKeep*t.box.W + smoothMix*obs.Box.W
	t.box.H = smoothKeep*t.box.H + smoothMix*obs.Box.H

	filtered := t.estimator.Update(obs)
	t.metrics.Attention = clamp(smoothKeep*t.metrics.Attention + smoothMix*filtered.Attention)
	t.metrics.Stress = clamp(smoothKeep*t.metrics.Stress + smoothMix*filtered.Stress)
	t.metrics.Curiosity = clamp(smoothKeep*t.metrics.Curiosity + smoothMix*filtered.Curiosity)
}

// pushHistory appends one entry, evicting the oldest once the cap is hit.
func (t *Track) pushHistory(box detector.Box, now time.Time) {
	if len(t.history) >= t.historyCap {
		copy(t.history, t.history[1:])
		t.history = t.history[:len(t.history)-1]
	}
	t.history = append(t.history, HistoryEntry{
		X:  box.X,
		Y:  box.Y,
		W:  box.W,
		H:  box.H,
		At: now,
	})
}

// snapshot derives the per-frame output for this track.
func (t *Track) snapshot() Snapshot {
	return Snapshot{
		ID:           t.id,
		Box:          t.box,
		Metrics:      t.metrics,
		BadSign:      t.metrics.Stress > 75 && t.metrics.Attention < 35,
		BodyLanguage: Classify(t.metrics, t.box, t.history, t.baseline),
	}
}

// ID returns the track's identity.
func (t *Track) ID() int {
	return t.id
}
