package app

import (
	"log"
	"time"
)

// runPipeline is the main analysis loop. Every tick it reads a frame, runs
// face detection, and feeds the observations to the track manager.
//
// Frame rate is adaptive: scene activity above the threshold switches the
// camera to the active rate; after 2s of stillness it drops back to idle.
// Detection itself runs on every tick regardless, since a still room full of
// attentive people is exactly what this tool is for.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastActivityTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if analysis is disabled
			if !a.IsEnabled() {
				continue
			}

			camera := a.Camera()
			frame, err := camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Activity measurement drives the frame rate
			level := a.activity.Measure(frame)
			if level >= a.config.ActivityThresh {
				lastActivityTime = time.Now()
				if !activeMode {
					activeMode = true
					camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastActivityTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Step 2: Face detection
			det := a.Detector()
			if det == nil {
				frame.Close()
				continue
			}

			observations, err := det.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting faces: %v", err)
				continue
			}

			// Step 3: Track matching and engagement scoring
			now := time.Now()
			a.trackMu.Lock()
			snapshots := a.manager.Process(now, observations)
			a.trackMu.Unlock()

			a.mu.RLock()
			publish := a.onSnapshots
			a.mu.RUnlock()
			if publish != nil {
				publish(now, snapshots)
			}
		}
	}
}
