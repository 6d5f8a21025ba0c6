package engage

import (
	"math"

	"github.com/ayusman/darpan/internal/detector"
)

// Metrics is one person's normalized cognitive state. All three scores are
// bounded to [0,100] at all times.
type Metrics struct {
	Attention float64 `json:"attention"`
	Stress    float64 `json:"stress"`
	Curiosity float64 `json:"curiosity"`
}

// Filter tuning per metric. Attention smooths hardest since head pose is
// the noisiest input; stress and curiosity respond a little faster.
const (
	attentionProcessNoise     = 0.05
	attentionMeasurementNoise = 6.0
	stressProcessNoise        = 0.1
	stressMeasurementNoise    = 4.0
	curiosityProcessNoise     = 0.1
	curiosityMeasurementNoise = 4.0
)

// Estimator converts one face observation per frame into filtered cognitive
// metrics. It is stateless apart from its three filter instances, so one
// Estimator must be owned per tracked person and discarded when the person's
// track is retired.
type Estimator struct {
	attention *Filter
	stress    *Filter
	curiosity *Filter
}

// NewEstimator creates an Estimator with one freshly seeded filter per metric.
func NewEstimator() *Estimator {
	return &Estimator{
		attention: NewFilter(attentionProcessNoise, attentionMeasurementNoise),
		stress:    NewFilter(stressProcessNoise, stressMeasurementNoise),
		curiosity: NewFilter(curiosityProcessNoise, curiosityMeasurementNoise),
	}
}

// Update scores one observation and passes each raw score through its
// dedicated filter. Biometric scoring is used whenever the observation
// carries head pose and eye signals; otherwise the coarser expression
// scoring applies. Reported values are rounded to two decimals.
func (e *Estimator) Update(obs detector.Observation) Metrics {
	var raw Metrics
	if obs.Biometrics != nil {
		raw = ScoreBiometrics(*obs.Biometrics, obs.Expressions)
	} else {
		raw = ScoreExpressions(obs.Expressions)
	}

	return Metrics{
		Attention: round2(clamp(e.attention.Update(raw.Attention))),
		Stress:    round2(clamp(e.stress.Update(raw.Stress))),
		Curiosity: round2(clamp(e.curiosity.Update(raw.Curiosity))),
	}
}

// ScoreExpressions maps per-expression confidences to raw metric scores.
// This is the coarse mode used when the face service reports expression
// confidences only.
func ScoreExpressions(x detector.Expressions) Metrics {
	attention := 100*(0.8*x.Neutral+0.5*x.Surprised+0.2*x.Happy) -
		100*(0.3*x.Sad+0.3*x.Fearful+0.2*x.Disgusted)
	stress := 100 * (x.Angry + x.Fearful + x.Disgusted + 0.5*x.Sad)
	curiosity := 100 * (x.Surprised + x.Happy)

	return Metrics{
		Attention: clamp(attention),
		Stress:    clamp(stress),
		Curiosity: clamp(curiosity),
	}
}

// ScoreBiometrics maps head pose, eye aspect ratio and blink rate (plus
// expression confidences) to raw metric scores. This is the precise mode.
//
// The -5 degree pitch offset treats a slight downward screen-viewing tilt
// as the neutral head position.
func ScoreBiometrics(b detector.Biometrics, x detector.Expressions) Metrics {
	attention := 100 - math.Pow(math.Abs(b.Yaw), 1.5) - math.Pow(math.Abs(b.Pitch-5), 1.5)
	if b.EyeAspect < 0.15 {
		attention -= 40
	}
	attention = clamp(attention)

	stress := 30.0
	switch {
	case b.BlinkRate > 25:
		stress += 20
	case b.BlinkRate < 5:
		stress += 10
	}
	stress += 40*x.Angry + 50*x.Fearful - 20*x.Happy

	curiosity := 50.0
	if attention > 70 {
		curiosity += 10
	}
	if b.Pitch > -20 && b.Pitch < -5 {
		curiosity += 15
	}
	curiosity += 40*x.Surprised + 10*x.Happy

	return Metrics{
		Attention: attention,
		Stress:    clamp(stress),
		Curiosity: clamp(curiosity),
	}
}

// clamp bounds a score to [0,100] and maps any non-finite arithmetic result
// back into range rather than letting it escape.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
