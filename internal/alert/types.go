// Package alert provides discovery and execution of external alert plugins.
// Plugins are standalone executables that receive an alert as JSON on stdin
// and reply with a JSON result on stdout.
package alert

import (
	"encoding/json"
	"time"

	"github.com/ayusman/darpan/internal/engage"
)

// Event names a condition that alert plugins can subscribe to.
const (
	// EventBadSign fires when a tracked person shows high stress with low attention.
	EventBadSign = "bad_sign"
	// EventSessionEnd fires when an analysis session is closed.
	EventSessionEnd = "session_end"
)

// Manifest describes an alert plugin's metadata and the events it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Alert is the payload delivered to a plugin when an event fires.
type Alert struct {
	Event        string         `json:"event"`
	SessionID    string         `json:"sessionId"`
	PersonID     int            `json:"personId"`
	Timestamp    time.Time      `json:"timestamp"`
	Metrics      engage.Metrics `json:"metrics"`
	BodyLanguage string         `json:"bodyLanguage"`
}

// Response is what a plugin writes to stdout after handling an alert.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered alert plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribes to the given event.
func (p *Plugin) Handles(event string) bool {
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
