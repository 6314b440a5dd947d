package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/models"
	"github.com/sawdustofmind/nfe-predictor/internal/session"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type leagueRequest struct {
	Slug string `json:"slug"`
}

type draftRequest struct {
	Text string `json:"text"`
}

type predictionRequest struct {
	Query   string `json:"query"`
	MatchID int    `json:"match_id"`
}

type Server struct {
	sessions *session.Manager
	handler  http.Handler
}

func New(sessions *session.Manager, allowedOrigins []string) *Server {
	s := &Server{
		sessions: sessions,
	}

	r := mux.NewRouter()
	r.HandleFunc("/heartbeat", s.heartbeatHandler).Methods("GET", "POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leagues", s.leaguesHandler).Methods("GET")
	api.HandleFunc("/platforms", s.platformsHandler).Methods("GET")
	api.HandleFunc("/sessions", s.createSessionHandler).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.getSessionHandler).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.deleteSessionHandler).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/league", s.selectLeagueHandler).Methods("PUT")
	api.HandleFunc("/sessions/{id}/draft", s.draftHandler).Methods("PUT")
	api.HandleFunc("/sessions/{id}/predictions", s.predictHandler).Methods("POST")
	api.HandleFunc("/sessions/{id}/messages", s.resetHandler).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(r)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", zap.Error(err))
	}
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		err := r.Body.Close()
		if err != nil {
			log.Error("Failed to close request body", zap.Error(err))
		}
	}()

	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// detached keeps provider calls alive when the client goes away, so a late
// result still lands in the session like it would in an open browser tab.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) heartbeatHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	log.Debug("Heartbeat received")
}

func (s *Server) leaguesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Leagues())
}

func (s *Server) platformsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.BettingPlatforms())
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create(detached(r))
	log.Info("Session created", zap.String("session_id", sess.ID()))
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(mux.Vars(r)["id"]) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectLeagueHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req leagueRequest
	if err := decodeBody(r, &req); err != nil {
		log.Error("Invalid league request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := sess.SelectLeague(detached(r), req.Slug)
	switch {
	case errors.Is(err, session.ErrUnknownLeague):
		http.Error(w, fmt.Sprintf("Unknown league %q", req.Slug), http.StatusBadRequest)
		return
	case errors.Is(err, session.ErrSuperseded):
		writeJSON(w, http.StatusConflict, sess.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) draftHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req draftRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.SetDraft(req.Text)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) predictHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req predictionRequest
	if err := decodeBody(r, &req); err != nil {
		log.Error("Invalid prediction request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := sess.Predict(detached(r), session.Query{Text: req.Query, MatchID: req.MatchID})
	writeJSON(w, predictionStatus(err), sess.Snapshot())
}

func predictionStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, session.ErrEmptyQuery), errors.Is(err, session.ErrUnknownMatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
