package engage

import (
	"testing"
	"time"

	"github.com/ayusman/darpan/internal/detector"
)

// steadyHistory returns n entries at a fixed position.
func steadyHistory(n int, x, y float64) []HistoryEntry {
	entries := make([]HistoryEntry, n)
	for i := range entries {
		entries[i] = HistoryEntry{X: x, Y: y, W: 50, H: 50, At: time.Unix(int64(i), 0)}
	}
	return entries
}

// jitteryHistory returns entries hopping between two far-apart positions.
func jitteryHistory(n int) []HistoryEntry {
	entries := make([]HistoryEntry, n)
	for i := range entries {
		x := 100.0
		if i%2 == 0 {
			x = 160.0
		}
		entries[i] = HistoryEntry{X: x, Y: 100, W: 50, H: 50, At: time.Unix(int64(i), 0)}
	}
	return entries
}

// oscillatingHistory returns entries that reverse direction along one axis.
func oscillatingHistory(n int, vertical bool) []HistoryEntry {
	entries := make([]HistoryEntry, n)
	for i := range entries {
		offset := 5.0
		if i%2 == 0 {
			offset = -5.0
		}
		e := HistoryEntry{X: 100, Y: 100, W: 50, H: 50, At: time.Unix(int64(i), 0)}
		if vertical {
			e.Y += offset
		} else {
			e.X += offset
		}
		entries[i] = e
	}
	return entries
}

func TestClassify_ShortHistoryIsListening(t *testing.T) {
	m := Metrics{Attention: 95, Stress: 90}
	box := detector.Box{X: 100, Y: 100, W: 100, H: 100}

	got := Classify(m, box, steadyHistory(2, 100, 100), Baseline{W: 50, Y: 100})
	if got != LabelListening {
		t.Errorf("Classify() with 2 history entries = %q, want %q", got, LabelListening)
	}
}

func TestClassify_Rules(t *testing.T) {
	baseline := Baseline{W: 50, Y: 100}

	tests := []struct {
		name    string
		metrics Metrics
		box     detector.Box
		history []HistoryEntry
		want    string
	}{
		{
			name:    "fidgeting on jitter and stress",
			metrics: Metrics{Attention: 50, Stress: 70},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: jitteryHistory(6),
			want:    LabelFidgeting,
		},
		{
			name:    "leaning forward on grown box",
			metrics: Metrics{Attention: 80, Stress: 20},
			box:     detector.Box{X: 100, Y: 100, W: 65, H: 65},
			history: steadyHistory(5, 100, 100),
			want:    LabelLeaningForward,
		},
		{
			name:    "slouching on dropped box and low attention",
			metrics: Metrics{Attention: 30, Stress: 20},
			box:     detector.Box{X: 100, Y: 120, W: 50, H: 50},
			history: steadyHistory(5, 100, 120),
			want:    LabelSlouching,
		},
		{
			name:    "nodding on vertical reversals",
			metrics: Metrics{Attention: 70, Stress: 20},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: oscillatingHistory(5, true),
			want:    LabelNodding,
		},
		{
			name:    "head shaking on horizontal reversals",
			metrics: Metrics{Attention: 50, Stress: 55},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: oscillatingHistory(5, false),
			want:    LabelHeadShaking,
		},
		{
			name:    "arms crossed on still high stress",
			metrics: Metrics{Attention: 50, Stress: 80},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: steadyHistory(5, 100, 100),
			want:    LabelArmsCrossed,
		},
		{
			name:    "engaged on high attention",
			metrics: Metrics{Attention: 85, Stress: 20},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: steadyHistory(5, 100, 100),
			want:    LabelEngaged,
		},
		{
			name:    "listening as fallback",
			metrics: Metrics{Attention: 50, Stress: 20},
			box:     detector.Box{X: 100, Y: 100, W: 50, H: 50},
			history: steadyHistory(5, 100, 100),
			want:    LabelListening,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.metrics, tt.box, tt.history, baseline)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_EarlierRuleWins(t *testing.T) {
	baseline := Baseline{W: 50, Y: 100}

	// Jittery motion with high stress AND a grown box with high attention:
	// fidgeting is listed first, so it must win over leaning forward.
	m := Metrics{Attention: 80, Stress: 70}
	box := detector.Box{X: 100, Y: 100, W: 65, H: 65}

	got := Classify(m, box, jitteryHistory(6), baseline)
	if got != LabelFidgeting {
		t.Errorf("Classify() = %q, want %q (earlier rule must win)", got, LabelFidgeting)
	}

	// A grown box with high attention also satisfies the engaged rule;
	// leaning forward is listed earlier and must win.
	m = Metrics{Attention: 85, Stress: 20}
	got = Classify(m, box, steadyHistory(5, 100, 100), baseline)
	if got != LabelLeaningForward {
		t.Errorf("Classify() = %q, want %q (earlier rule must win)", got, LabelLeaningForward)
	}
}

func TestClassify_UsesOnlyRecentWindow(t *testing.T) {
	baseline := Baseline{W: 50, Y: 100}

	// Old jitter followed by 5 steady entries must classify on the steady
	// window, not the stale motion.
	history := append(jitteryHistory(10), steadyHistory(5, 100, 100)...)
	m := Metrics{Attention: 85, Stress: 70}
	box := detector.Box{X: 100, Y: 100, W: 50, H: 50}

	got := Classify(m, box, history, baseline)
	if got == LabelFidgeting {
		t.Errorf("Classify() = %q, stale history leaked into the motion window", got)
	}
}
