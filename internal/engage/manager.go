package engage

import (
	"math"
	"time"

	"github.com/ayusman/darpan/internal/detector"
)

// Config holds the tunable constants of a Manager.
type Config struct {
	// MatchDistance is the maximum center-to-center distance, in pixels,
	// for a detection to match an existing track.
	MatchDistance float64

	// MaxMissingFrames is how many consecutive unmatched frames a track
	// survives before it is retired.
	MaxMissingFrames int

	// HistorySize caps each track's position history.
	HistorySize int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MatchDistance:    100,
		MaxMissingFrames: 30,
		HistorySize:      30,
	}
}

// Manager owns the live track set for one session. It matches incoming
// detections to tracks, creates and retires tracks, and emits per-frame
// snapshots.
//
// A Manager is not safe for concurrent use: Process mutates shared track
// state non-atomically, so callers must run frame passes strictly one at a
// time and in arrival order. Separate sessions get separate Manager
// instances with independent identity counters.
type Manager struct {
	config Config

	nextID int
	tracks []*Track

	// onConfirmed fires once per frame for every track that matched a
	// detection this frame, after snapshots are derived.
	onConfirmed func(now time.Time, s Snapshot)
}

// NewManager creates a Manager with the given configuration. Zero or
// negative config fields fall back to the defaults.
func NewManager(config Config) *Manager {
	def := DefaultConfig()
	if config.MatchDistance <= 0 {
		config.MatchDistance = def.MatchDistance
	}
	if config.MaxMissingFrames <= 0 {
		config.MaxMissingFrames = def.MaxMissingFrames
	}
	if config.HistorySize <= 0 {
		config.HistorySize = def.HistorySize
	}

	return &Manager{
		config: config,
		nextID: 1,
	}
}

// OnConfirmed registers the callback invoked for every track confirmed by a
// detection this frame. Tracks merely persisting through absence do not
// trigger it.
func (m *Manager) OnConfirmed(fn func(now time.Time, s Snapshot)) {
	m.onConfirmed = fn
}

// Process runs one full frame pass: age, match, create, prune, classify.
// It returns one snapshot per surviving track. An empty observation list is
// normal; all tracks simply age toward retirement.
//
// Matching is greedy in detection order: each observation claims the
// nearest still-unmatched track within MatchDistance, so an earlier, farther
// observation can take a track away from a later, nearer one. This mirrors
// the detector's per-frame ordering and keeps matching deterministic for
// identical input.
func (m *Manager) Process(now time.Time, observations []detector.Observation) []Snapshot {
	for _, t := range m.tracks {
		t.missing++
	}

	matched := make(map[*Track]bool, len(m.tracks))

	for _, obs := range observations {
		if !validObservation(obs) {
			continue
		}

		if best := m.nearestUnmatched(obs, matched); best != nil {
			best.update(obs, now)
			matched[best] = true
			continue
		}

		t := newTrack(m.nextID, obs, now, m.config.HistorySize)
		m.nextID++
		m.tracks = append(m.tracks, t)
		matched[t] = true
	}

	m.prune()

	snapshots := make([]Snapshot, 0, len(m.tracks))
	for _, t := range m.tracks {
		s := t.snapshot()
		snapshots = append(snapshots, s)
		if t.missing == 0 && m.onConfirmed != nil {
			m.onConfirmed(now, s)
		}
	}

	return snapshots
}

// nearestUnmatched returns the closest unmatched track within MatchDistance,
// or nil if none qualifies.
func (m *Manager) nearestUnmatched(obs detector.Observation, matched map[*Track]bool) *Track {
	cx, cy := obs.Box.Center()

	var best *Track
	bestDist := m.config.MatchDistance

	for _, t := range m.tracks {
		if matched[t] {
			continue
		}
		tx, ty := t.box.Center()
		dist := math.Hypot(cx-tx, cy-ty)
		if dist < bestDist {
			best = t
			bestDist = dist
		}
	}

	return best
}

// prune retires tracks that exceeded the missing tolerance so no stale
// track ever surfaces in the frame's output.
func (m *Manager) prune() {
	kept := m.tracks[:0]
	for _, t := range m.tracks {
		if t.missing > m.config.MaxMissingFrames {
			continue
		}
		kept = append(kept, t)
	}
	m.tracks = kept
}

// Len returns the number of live tracks.
func (m *Manager) Len() int {
	return len(m.tracks)
}

// Reset drops all live tracks. The identity counter keeps counting so
// identities stay unique for the lifetime of the Manager.
func (m *Manager) Reset() {
	m.tracks = nil
}

// validObservation rejects structurally invalid detector output before it
// can mutate any track state.
func validObservation(obs detector.Observation) bool {
	if obs.Box.W <= 0 || obs.Box.H <= 0 {
		return false
	}

	x := obs.Expressions
	for _, c := range []float64{x.Neutral, x.Happy, x.Sad, x.Angry, x.Fearful, x.Disgusted, x.Surprised} {
		if c < 0 || c > 1 || math.IsNaN(c) {
			return false
		}
	}

	if b := obs.Biometrics; b != nil {
		if b.EyeAspect < 0 || b.BlinkRate < 0 {
			return false
		}
		if math.IsNaN(b.Yaw) || math.IsNaN(b.Pitch) || math.IsNaN(b.Roll) {
			return false
		}
	}

	return true
}
