package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ayusman/darpan/internal/app"
	"github.com/ayusman/darpan/internal/config"
	"github.com/ayusman/darpan/internal/engage"
	"github.com/ayusman/darpan/internal/server"
	"github.com/ayusman/darpan/internal/store"
	"github.com/ayusman/darpan/internal/tray"
)

func main() {
	fmt.Println("Darpan - Meeting Presence Analyzer")

	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "darpan.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	alertDir := cfg.AlertDir
	if alertDir == "" {
		alertDir = filepath.Join(cfg.DataDir, "alerts")
	}

	a := app.New(app.Config{
		Store:          st,
		AlertDir:       alertDir,
		AlertTimeoutMs: cfg.AlertTimeoutMs,
		CameraID:       cfg.CameraID,
		ActivityThresh: cfg.ActivityThresh,
		Tracking: engage.Config{
			MatchDistance:    cfg.MatchDistance,
			MaxMissingFrames: cfg.MaxMissingFrames,
			HistorySize:      cfg.HistorySize,
		},
	})

	if err := a.DiscoverAlertPlugins(); err != nil {
		log.Printf("Alert plugin discovery failed: %v", err)
	} else {
		log.Printf("Discovered %d alert plugins", len(a.AlertManager().List()))
	}

	live := server.NewLiveHandler()
	a.OnSnapshots(live.Publish)

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Live:      live,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start analysis pipeline: %v", err)
	}
	a.SetEnabled(true)

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnDashboard(func() {
		openBrowser("http://localhost" + cfg.HTTPAddr)
	})
	t.OnQuit(func() {
		if err := a.EndSession(); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		a.Stop()
	})

	// Keep the tracked-people line fresh.
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetPeopleCount(a.PeopleCount())
		}
	}()

	// Blocks until quit; systray needs the main thread.
	t.Run()
}

// findWebDir searches for the dashboard directory in common locations.
// It checks "web", "../web", "../../web", and <dataDir>/web. Returns the
// first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens a URL with the platform's default handler.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
