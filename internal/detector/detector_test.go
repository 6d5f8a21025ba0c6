package detector

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBox_Center(t *testing.T) {
	tests := []struct {
		name   string
		box    Box
		wantX  float64
		wantY  float64
	}{
		{"origin box", Box{X: 0, Y: 0, W: 100, H: 50}, 50, 25},
		{"offset box", Box{X: 200, Y: 300, W: 120, H: 140}, 260, 370},
		{"zero size", Box{X: 10, Y: 20}, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.box.Center()
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Center() = (%f, %f), want (%f, %f)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestObservation_WireFormat(t *testing.T) {
	t.Run("full observation with biometrics", func(t *testing.T) {
		line := `{"box":{"x":100,"y":50,"w":120,"h":140},"score":0.93,` +
			`"expressions":{"neutral":0.7,"happy":0.2,"surprised":0.1},` +
			`"biometrics":{"yaw":5,"pitch":-3,"roll":1,"ear":0.3,"blinkRate":12}}`

		var obs Observation
		if err := json.Unmarshal([]byte(line), &obs); err != nil {
			t.Fatalf("unmarshal error = %v", err)
		}

		if obs.Box.W != 120 {
			t.Errorf("box width = %f, want 120", obs.Box.W)
		}
		if obs.Score != 0.93 {
			t.Errorf("score = %f, want 0.93", obs.Score)
		}
		if obs.Expressions.Neutral != 0.7 {
			t.Errorf("neutral = %f, want 0.7", obs.Expressions.Neutral)
		}
		if obs.Biometrics == nil {
			t.Fatal("biometrics should be present")
		}
		if obs.Biometrics.EyeAspect != 0.3 {
			t.Errorf("eye aspect = %f, want 0.3", obs.Biometrics.EyeAspect)
		}
		if obs.Biometrics.BlinkRate != 12 {
			t.Errorf("blink rate = %f, want 12", obs.Biometrics.BlinkRate)
		}
	})

	t.Run("expressions-only observation", func(t *testing.T) {
		line := `{"box":{"x":0,"y":0,"w":80,"h":90},"score":0.8,` +
			`"expressions":{"neutral":1}}`

		var obs Observation
		if err := json.Unmarshal([]byte(line), &obs); err != nil {
			t.Fatalf("unmarshal error = %v", err)
		}

		if obs.Biometrics != nil {
			t.Error("biometrics should be nil when the service omits them")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns no faces by default", func(t *testing.T) {
		mock := NewMockDetector()

		faces, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if faces != nil {
			t.Errorf("expected nil faces, got %v", faces)
		}
	})

	t.Run("returns configured faces", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetFaces([]Observation{
			EngagedFace(Box{X: 10, Y: 10, W: 100, H: 120}),
			StressedFace(Box{X: 300, Y: 10, W: 100, H: 120}),
		})

		faces, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(faces) != 2 {
			t.Errorf("expected 2 faces, got %d", len(faces))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		wantErr := errors.New("detection failed")
		mock.SetError(wantErr)

		faces, err := mock.Detect(nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected error %v, got %v", wantErr, err)
		}
		if faces != nil {
			t.Errorf("expected nil faces when error is set, got %v", faces)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestPresetFaces(t *testing.T) {
	box := Box{X: 100, Y: 100, W: 120, H: 140}

	t.Run("engaged face looks straight ahead", func(t *testing.T) {
		face := EngagedFace(box)

		if face.Box != box {
			t.Errorf("box = %+v, want %+v", face.Box, box)
		}
		if face.Biometrics == nil {
			t.Fatal("engaged face should carry biometrics")
		}
		if face.Biometrics.Yaw > 10 || face.Biometrics.Yaw < -10 {
			t.Errorf("engaged yaw = %f, want near zero", face.Biometrics.Yaw)
		}
		if face.Expressions.Neutral < 0.5 {
			t.Errorf("engaged neutral = %f, want dominant", face.Expressions.Neutral)
		}
	})

	t.Run("stressed face carries negative expressions", func(t *testing.T) {
		face := StressedFace(box)

		negative := face.Expressions.Angry + face.Expressions.Fearful + face.Expressions.Sad
		if negative < 0.5 {
			t.Errorf("stressed negative expressions sum = %f, want dominant", negative)
		}
		if face.Biometrics.BlinkRate <= 25 {
			t.Errorf("stressed blink rate = %f, want > 25", face.Biometrics.BlinkRate)
		}
	})

	t.Run("curious face is surprised", func(t *testing.T) {
		face := CuriousFace(box)

		if face.Expressions.Surprised < 0.4 {
			t.Errorf("curious surprised = %f, want dominant", face.Expressions.Surprised)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxFaces != 8 {
		t.Errorf("MaxFaces = %d, want 8", cfg.MaxFaces)
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %f, want 0.5", cfg.MinConfidence)
	}
}
