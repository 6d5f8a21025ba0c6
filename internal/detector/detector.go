// Package detector defines the face observation detector interface for the
// Darpan presence analysis system.
package detector

import "gocv.io/x/gocv"

// Detector defines the interface for face detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns one observation per
	// detected face. Returns an empty slice if no faces are detected.
	Detect(frame *gocv.Mat) ([]Observation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Box is an axis-aligned face bounding box in frame pixel coordinates.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the box.
func (b Box) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Expressions holds per-expression confidences in [0,1] as reported by the
// upstream expression model.
type Expressions struct {
	Neutral   float64 `json:"neutral"`
	Happy     float64 `json:"happy"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Fearful   float64 `json:"fearful"`
	Disgusted float64 `json:"disgusted"`
	Surprised float64 `json:"surprised"`
}

// Biometrics holds head pose and eye signals when the face service provides
// them. Yaw, Pitch and Roll are in degrees; BlinkRate is blinks per minute.
type Biometrics struct {
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch"`
	Roll      float64 `json:"roll"`
	EyeAspect float64 `json:"ear"`
	BlinkRate float64 `json:"blinkRate"`
}

// Observation is one frame's raw detector output for one face. It is
// ephemeral: the tracking layer consumes it during a single frame pass and
// never retains it.
type Observation struct {
	Box         Box         `json:"box"`
	Score       float64     `json:"score"`
	Expressions Expressions `json:"expressions"`
	// Biometrics is nil when the face service only reports expressions.
	Biometrics *Biometrics `json:"biometrics,omitempty"`
}

// Config holds configuration options for face detection.
type Config struct {
	// MaxFaces is the maximum number of faces to detect (default: 8).
	MaxFaces int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:      8,
		MinConfidence: 0.5,
	}
}
