// Package api provides HTTP API handlers for the Darpan meeting analyzer.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/darpan/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes session requests.
// Supported paths:
//
//	/api/sessions                  GET list, POST create
//	/api/sessions/{id}             GET, DELETE
//	/api/sessions/{id}/records     GET engagement log
//	/api/sessions/{id}/summary     GET per-person summaries
//	/api/sessions/{id}/export      GET CSV download
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, sub, _ := strings.Cut(path, "/")

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "records":
		h.records(w, r, id)
	case "summary":
		h.summary(w, r, id)
	case "export":
		h.export(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// Request and response types

type createSessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type recordResponse struct {
	PersonID     int     `json:"person_id"`
	RecordedAt   string  `json:"recorded_at"`
	Attention    float64 `json:"attention"`
	Stress       float64 `json:"stress"`
	Curiosity    float64 `json:"curiosity"`
	BadSign      bool    `json:"bad_sign"`
	BodyLanguage string  `json:"body_language"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartedAt: s.StartedAt.Format(time.RFC3339),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/sessions.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	session, err := h.store.Sessions().Create(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(session))
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// records handles GET /api/sessions/{id}/records.
func (h *SessionHandler) records(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.requireSession(w, id); err != nil {
		return
	}

	records, err := h.store.Records().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	response := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, recordResponse{
			PersonID:     rec.PersonID,
			RecordedAt:   rec.RecordedAt.UTC().Format(time.RFC3339),
			Attention:    rec.Attention,
			Stress:       rec.Stress,
			Curiosity:    rec.Curiosity,
			BadSign:      rec.BadSign,
			BodyLanguage: rec.BodyLanguage,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": response})
}

// summary handles GET /api/sessions/{id}/summary.
func (h *SessionHandler) summary(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.requireSession(w, id); err != nil {
		return
	}

	summaries, err := h.store.Records().Summarize(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"people": summaries})
}

// export handles GET /api/sessions/{id}/export and streams the engagement
// log as a CSV download.
func (h *SessionHandler) export(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.requireSession(w, id); err != nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "session-"+id+".csv"))

	if err := h.store.Records().WriteCSV(w, id); err != nil {
		// Headers are already out, all we can do is log via the error path.
		writeError(w, http.StatusInternalServerError, "Failed to export session")
	}
}

// requireSession verifies the session exists, writing the error response
// itself when it does not.
func (h *SessionHandler) requireSession(w http.ResponseWriter, id string) error {
	_, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to get session")
		}
	}
	return err
}
