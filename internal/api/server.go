// Package api exposes the analysis engine over a local HTTP interface:
// the pose-estimation process posts keypoint frames, the presentation
// layer reads per-frame results directly or over an SSE stream.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/formsense/formsense/internal/db"
	"github.com/formsense/formsense/internal/engine"
	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/monitoring"
	"github.com/formsense/formsense/internal/pose"
)

// Server routes API requests to the engine and the catalog store.
type Server struct {
	store     *db.DB
	engineCfg engine.Config

	mu       sync.Mutex
	sessions map[string]*engine.Session

	stream *stream
}

// NewServer creates an API server backed by the given catalog store and
// engine tuning.
func NewServer(store *db.DB, engineCfg engine.Config) *Server {
	return &Server{
		store:     store,
		engineCfg: engineCfg,
		sessions:  make(map[string]*engine.Session),
		stream:    newStream(),
	}
}

// ServeMux returns the API routing table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/api/exercises", s.exercisesHandler)
	mux.HandleFunc("/api/sessions", s.createSessionHandler)
	mux.HandleFunc("/api/sessions/", s.sessionHandler)
	return mux
}

// Session returns a live session by ID, or nil. The monitor package uses
// this to render debug charts.
func (s *Server) Session(id string) *engine.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("formsense analysis server\n"))
}

func (s *Server) exercisesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.store.ListExercises(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"exercises": records})

	case http.MethodPost:
		// Accept a config pushed by the recommendation service. A config
		// that fails structural validation is rejected outright; it must
		// never reach a session.
		body, err := readBody(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg, err := exercise.ParseConfig(body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		id, err := s.store.SaveExercise(r.Context(), cfg)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id, "name": cfg.Name})

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "missing name parameter")
			return
		}
		if err := s.store.DeleteExercise(r.Context(), name); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, db.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeJSONError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": name})

	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type createSessionRequest struct {
	Exercise string `json:"exercise"`
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Exercise == "" {
		writeJSONError(w, http.StatusBadRequest, "missing exercise name")
		return
	}

	ex, err := s.store.GetExercise(r.Context(), req.Exercise)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, db.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSONError(w, status, err.Error())
		return
	}

	session := engine.NewSession(ex, s.engineCfg)
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	monitoring.Logf("session %s created for exercise %q", session.ID, ex.Name)
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": session.ID,
		"exercise":   ex.Name,
	})
}

type frameRequest struct {
	Keypoints pose.Frame `json:"keypoints"`
}

// sessionHandler routes /api/sessions/{id}/{action}.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	if parts[0] == "" {
		writeJSONError(w, http.StatusBadRequest, "missing session id")
		return
	}

	session := s.Session(parts[0])
	if session == nil {
		writeJSONError(w, http.StatusNotFound, "unknown session")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "start", "stop", "reset":
		s.controlHandler(w, r, session, action)
	case "frames":
		s.frameHandler(w, r, session)
	case "summary":
		s.summaryHandler(w, r, session)
	case "history":
		s.historyHandler(w, r, session)
	case "stream":
		s.streamHandler(w, r, session)
	case "":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id":  session.ID,
			"exercise":    session.Exercise.Name,
			"started":     session.Started(),
			"rep_count":   session.RepCount(),
			"active_side": session.ActiveSide(),
		})
	default:
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", action))
	}
}

func (s *Server) controlHandler(w http.ResponseWriter, r *http.Request, session *engine.Session, action string) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch action {
	case "start":
		session.Start()
	case "stop":
		session.Stop()
	case "reset":
		session.Reset()
	}
	monitoring.Logf("session %s: %s", session.ID, action)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": session.ID,
		"started":    session.Started(),
		"rep_count":  session.RepCount(),
	})
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request, session *engine.Session) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid frame JSON")
		return
	}

	result := session.Analyze(req.Keypoints)
	if payload, err := json.Marshal(result); err == nil {
		s.stream.Publish(session.ID, payload)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request, session *engine.Session) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, session.Summarize())
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request, session *engine.Session) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": session.ID,
		"samples":    session.History(),
	})
}

func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request, session *engine.Session) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := s.stream.Subscribe(session.ID)
	defer s.stream.Unsubscribe(session.ID, id)

	// Initial ping so the client knows the stream is up.
	w.Write([]byte(": ping\n\n"))
	flusher.Flush()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func readBody(r *http.Request) ([]byte, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return raw, nil
}
