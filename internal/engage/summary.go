package engage

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample is one logged metric reading for one person, used for session
// summaries. The store layer converts its rows into Samples.
type Sample struct {
	ID           int
	Attention    float64
	Stress       float64
	Curiosity    float64
	BodyLanguage string
}

// PersonSummary aggregates one person's readings over a session.
type PersonSummary struct {
	ID            int     `json:"id"`
	Samples       int     `json:"samples"`
	AttentionMean float64 `json:"attentionMean"`
	AttentionStd  float64 `json:"attentionStd"`
	AttentionP90  float64 `json:"attentionP90"`
	StressMean    float64 `json:"stressMean"`
	StressMax     float64 `json:"stressMax"`
	CuriosityMean float64 `json:"curiosityMean"`
	DominantLabel string  `json:"dominantBodyLanguage"`
}

// Summarize groups samples by person and computes per-person aggregates.
// Results are ordered by person identity.
func Summarize(samples []Sample) []PersonSummary {
	byID := make(map[int][]Sample)
	for _, s := range samples {
		byID[s.ID] = append(byID[s.ID], s)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	summaries := make([]PersonSummary, 0, len(ids))
	for _, id := range ids {
		group := byID[id]

		attention := make([]float64, len(group))
		stress := make([]float64, len(group))
		curiosity := make([]float64, len(group))
		labels := make(map[string]int)

		for i, s := range group {
			attention[i] = s.Attention
			stress[i] = s.Stress
			curiosity[i] = s.Curiosity
			labels[s.BodyLanguage]++
		}

		sort.Float64s(attention)

		stressMax := stress[0]
		for _, v := range stress[1:] {
			if v > stressMax {
				stressMax = v
			}
		}

		var attentionStd float64
		if len(attention) > 1 {
			attentionStd = stat.StdDev(attention, nil)
		}

		summaries = append(summaries, PersonSummary{
			ID:            id,
			Samples:       len(group),
			AttentionMean: stat.Mean(attention, nil),
			AttentionStd:  attentionStd,
			AttentionP90:  stat.Quantile(0.9, stat.Empirical, attention, nil),
			StressMean:    stat.Mean(stress, nil),
			StressMax:     stressMax,
			CuriosityMean: stat.Mean(curiosity, nil),
			DominantLabel: dominantLabel(labels),
		})
	}

	return summaries
}

func dominantLabel(counts map[string]int) string {
	best := ""
	bestCount := -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < best) {
			best = label
			bestCount = count
		}
	}
	return best
}
