// Package app wires the capture, detection, and engagement analysis pipeline
// for the Darpan meeting presence analyzer.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/darpan/internal/alert"
	"github.com/ayusman/darpan/internal/capture"
	"github.com/ayusman/darpan/internal/detector"
	"github.com/ayusman/darpan/internal/engage"
	"github.com/ayusman/darpan/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when the scene is static.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the scene is changing.
	ActiveFPS = 15
	// IdleTimeoutMs is how long the scene must stay quiet before dropping
	// back to the idle frame rate.
	IdleTimeoutMs = 2000
	// BadSignCooldown is the minimum interval between alert deliveries for
	// the same person.
	BadSignCooldown = 30 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	AlertDir       string
	AlertTimeoutMs int
	CameraID       int
	ActivityThresh float64
	Tracking       engage.Config
}

// App orchestrates frame capture, face detection, engagement tracking, and
// alert delivery.
type App struct {
	config    Config
	camera    capture.Camera
	activity  *capture.ActivityDetector
	detector  detector.Detector
	manager   *engage.Manager
	alertMgr  *alert.Manager
	alertExec *alert.Executor

	enabled   bool
	mu        sync.RWMutex
	trackMu   sync.Mutex // serializes Manager access across goroutines
	stopCh    chan struct{}
	sessionID string

	onSnapshots func(time.Time, []engage.Snapshot)
	lastAlert   map[int]time.Time
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	activityThreshold := config.ActivityThresh
	if activityThreshold <= 0 {
		activityThreshold = 1.0 // Default: 1% pixel change counts as activity
	}
	config.ActivityThresh = activityThreshold

	alertTimeout := config.AlertTimeoutMs
	if alertTimeout <= 0 {
		alertTimeout = 5000
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		activity:  capture.NewActivityDetector(),
		manager:   engage.NewManager(config.Tracking),
		alertMgr:  alert.NewManager(config.AlertDir),
		alertExec: alert.NewExecutor(alertTimeout),
		lastAlert: make(map[int]time.Time),
	}

	a.manager.OnConfirmed(a.handleConfirmed)

	// Try the face service first, fall back to the mock detector
	if fs, err := detector.NewFaceServiceDetector(detector.DefaultConfig()); err == nil {
		a.detector = fs
		log.Println("Using face service detection")
	} else {
		log.Printf("Face service not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables engagement analysis.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether engagement analysis is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera implementation. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnSnapshots registers a callback receiving every processed frame's
// snapshots. Used to feed the live WebSocket broadcast.
func (a *App) OnSnapshots(fn func(time.Time, []engage.Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSnapshots = fn
}

// DiscoverAlertPlugins scans the alert plugin directory.
func (a *App) DiscoverAlertPlugins() error {
	return a.alertMgr.Discover()
}

// StartSession begins recording engagement under a new session. Tracking
// state is reset so person identities start fresh.
func (a *App) StartSession(name string) (*store.Session, error) {
	if a.config.Store == nil {
		return nil, nil
	}

	session, err := a.config.Store.Sessions().Create(name)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.sessionID = session.ID
	a.lastAlert = make(map[int]time.Time)
	a.mu.Unlock()

	a.trackMu.Lock()
	a.manager.Reset()
	a.trackMu.Unlock()

	log.Printf("Session started: %s (%s)", session.Name, session.ID)
	return session, nil
}

// EndSession stops recording and marks the current session as finished.
func (a *App) EndSession() error {
	a.mu.Lock()
	sessionID := a.sessionID
	a.sessionID = ""
	a.mu.Unlock()

	if sessionID == "" || a.config.Store == nil {
		return nil
	}

	if err := a.config.Store.Sessions().End(sessionID); err != nil {
		return err
	}

	a.dispatchAlerts(&alert.Alert{
		Event:     alert.EventSessionEnd,
		SessionID: sessionID,
		Timestamp: time.Now(),
	})

	log.Printf("Session ended: %s", sessionID)
	return nil
}

// SessionID returns the active session's ID, or empty when not recording.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// PeopleCount returns the number of currently tracked people.
func (a *App) PeopleCount() int {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()
	return a.manager.Len()
}

// Start begins the analysis pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Analysis pipeline started")
	return nil
}

// Stop halts the analysis pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.activity.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Analysis pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// AlertManager returns the alert plugin manager.
func (a *App) AlertManager() *alert.Manager {
	return a.alertMgr
}

// handleConfirmed receives every confirmed per-person snapshot. It records
// the reading when a session is active and dispatches bad-sign alerts.
func (a *App) handleConfirmed(now time.Time, snap engage.Snapshot) {
	a.mu.RLock()
	sessionID := a.sessionID
	a.mu.RUnlock()

	if sessionID != "" && a.config.Store != nil {
		err := a.config.Store.Records().Append(&store.Record{
			SessionID:    sessionID,
			PersonID:     snap.ID,
			RecordedAt:   now,
			Attention:    snap.Metrics.Attention,
			Stress:       snap.Metrics.Stress,
			Curiosity:    snap.Metrics.Curiosity,
			BadSign:      snap.BadSign,
			BodyLanguage: snap.BodyLanguage,
		})
		if err != nil {
			log.Printf("Failed to record engagement for person %d: %v", snap.ID, err)
		}
	}

	if snap.BadSign && a.shouldAlert(snap.ID, now) {
		a.dispatchAlerts(&alert.Alert{
			Event:        alert.EventBadSign,
			SessionID:    sessionID,
			PersonID:     snap.ID,
			Timestamp:    now,
			Metrics:      snap.Metrics,
			BodyLanguage: snap.BodyLanguage,
		})
	}
}

// shouldAlert enforces the per-person alert cooldown.
func (a *App) shouldAlert(personID int, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if last, ok := a.lastAlert[personID]; ok && now.Sub(last) < BadSignCooldown {
		return false
	}
	a.lastAlert[personID] = now
	return true
}

// dispatchAlerts delivers an alert to all subscribed plugins in the
// background. Plugin failures are logged, never fatal.
func (a *App) dispatchAlerts(al *alert.Alert) {
	plugins := a.alertMgr.Subscribers(al.Event)
	if len(plugins) == 0 {
		return
	}

	go func() {
		for _, p := range plugins {
			resp, err := a.alertExec.Execute(p, al)
			if err != nil {
				log.Printf("Alert plugin %s failed: %v", p.Manifest.Name, err)
				continue
			}
			if !resp.Success {
				log.Printf("Alert plugin %s rejected alert: %s", p.Manifest.Name, resp.Error)
			}
		}
	}()
}
