package engage

import (
	"math"
	"testing"
)

func TestSummarize_GroupsByPerson(t *testing.T) {
	samples := []Sample{
		{ID: 2, Attention: 80, Stress: 20, Curiosity: 50, BodyLanguage: LabelEngaged},
		{ID: 1, Attention: 40, Stress: 70, Curiosity: 30, BodyLanguage: LabelListening},
		{ID: 2, Attention: 90, Stress: 30, Curiosity: 60, BodyLanguage: LabelEngaged},
		{ID: 1, Attention: 60, Stress: 50, Curiosity: 30, BodyLanguage: LabelFidgeting},
		{ID: 1, Attention: 50, Stress: 60, Curiosity: 30, BodyLanguage: LabelFidgeting},
	}

	summaries := Summarize(samples)

	if len(summaries) != 2 {
		t.Fatalf("Summarize() returned %d summaries, want 2", len(summaries))
	}

	// Ordered by identity.
	if summaries[0].ID != 1 || summaries[1].ID != 2 {
		t.Fatalf("summary order = [%d %d], want [1 2]", summaries[0].ID, summaries[1].ID)
	}

	p1 := summaries[0]
	if p1.Samples != 3 {
		t.Errorf("person 1 samples = %d, want 3", p1.Samples)
	}
	if math.Abs(p1.AttentionMean-50) > 1e-9 {
		t.Errorf("person 1 attention mean = %f, want 50", p1.AttentionMean)
	}
	if p1.StressMax != 70 {
		t.Errorf("person 1 stress max = %f, want 70", p1.StressMax)
	}
	if p1.DominantLabel != LabelFidgeting {
		t.Errorf("person 1 dominant label = %q, want %q", p1.DominantLabel, LabelFidgeting)
	}

	p2 := summaries[1]
	if math.Abs(p2.AttentionMean-85) > 1e-9 {
		t.Errorf("person 2 attention mean = %f, want 85", p2.AttentionMean)
	}
	if p2.DominantLabel != LabelEngaged {
		t.Errorf("person 2 dominant label = %q, want %q", p2.DominantLabel, LabelEngaged)
	}
}

func TestSummarize_SingleSampleHasZeroStdDev(t *testing.T) {
	summaries := Summarize([]Sample{{ID: 1, Attention: 70, Stress: 10, Curiosity: 40, BodyLanguage: LabelListening}})

	if len(summaries) != 1 {
		t.Fatalf("Summarize() returned %d summaries, want 1", len(summaries))
	}
	if summaries[0].AttentionStd != 0 {
		t.Errorf("attention stddev = %f for one sample, want 0", summaries[0].AttentionStd)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) returned %d summaries, want 0", len(got))
	}
}
