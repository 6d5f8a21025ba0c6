package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []Observation
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the observations that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []Observation) {
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured observations or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Observation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// EngagedFace returns a preset observation representing an attentive,
// relaxed participant looking straight at the screen.
func EngagedFace(box Box) Observation {
	return Observation{
		Box:   box,
		Score: 0.95,
		Expressions: Expressions{
			Neutral:   0.85,
			Happy:     0.10,
			Surprised: 0.05,
		},
		Biometrics: &Biometrics{
			Yaw:       2,
			Pitch:     4,
			Roll:      1,
			EyeAspect: 0.31,
			BlinkRate: 14,
		},
	}
}

// StressedFace returns a preset observation representing a tense,
// distracted participant with a rapid blink rate.
func StressedFace(box Box) Observation {
	return Observation{
		Box:   box,
		Score: 0.92,
		Expressions: Expressions{
			Neutral: 0.15,
			Angry:   0.45,
			Fearful: 0.30,
			Sad:     0.10,
		},
		Biometrics: &Biometrics{
			Yaw:       28,
			Pitch:     -18,
			Roll:      5,
			EyeAspect: 0.12,
			BlinkRate: 32,
		},
	}
}

// CuriousFace returns a preset observation representing a surprised,
// forward-leaning participant.
func CuriousFace(box Box) Observation {
	return Observation{
		Box:   box,
		Score: 0.94,
		Expressions: Expressions{
			Neutral:   0.25,
			Happy:     0.20,
			Surprised: 0.55,
		},
		Biometrics: &Biometrics{
			Yaw:       1,
			Pitch:     -10,
			Roll:      0,
			EyeAspect: 0.33,
			BlinkRate: 12,
		},
	}
}
