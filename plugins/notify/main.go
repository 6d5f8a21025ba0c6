// Package main provides a desktop notification plugin for Darpan.
// It raises a system notification when a tracked person shows a bad sign.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Alert represents the input from the alert executor.
type Alert struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId"`
	PersonID  int    `json:"personId"`
	Metrics   struct {
		Attention float64 `json:"attention"`
		Stress    float64 `json:"stress"`
		Curiosity float64 `json:"curiosity"`
	} `json:"metrics"`
	BodyLanguage string `json:"bodyLanguage"`
}

// Response represents the output to the alert executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var alert Alert
	if err := json.NewDecoder(os.Stdin).Decode(&alert); err != nil {
		writeResponse(false, fmt.Sprintf("failed to decode alert: %v", err))
		return
	}

	title, body := formatNotification(alert)
	if err := notify(title, body); err != nil {
		writeResponse(false, fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeResponse(true, "")
}

// formatNotification builds the notification text for an alert.
func formatNotification(a Alert) (title, body string) {
	switch a.Event {
	case "bad_sign":
		title = "Darpan: participant needs attention"
		body = fmt.Sprintf("Person %d: %s (stress %.0f, attention %.0f)",
			a.PersonID, a.BodyLanguage, a.Metrics.Stress, a.Metrics.Attention)
	case "session_end":
		title = "Darpan: session finished"
		body = "The analysis session has ended."
	default:
		title = "Darpan"
		body = "Event: " + a.Event
	}
	return title, body
}

// notify raises a desktop notification using the platform's native tool.
func notify(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", title, body)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeResponse writes the executor response to stdout.
func writeResponse(success bool, errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: success,
		Error:   errMsg,
	})
}
