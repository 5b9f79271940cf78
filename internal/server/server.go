// Package server exposes a read-only HTTP status API over the running
// scheduler. It never mutates state; it only reports registered schedules
// and the signals persisted so far.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/scheduler"
	"github.com/KushT00/Forex-Ultimate/internal/types"
)

// SignalSource reports persisted signals. Satisfied by *tradelog.Store.
type SignalSource interface {
	Snapshot() []types.Signal
	Len() int
}

// ScheduleSource reports registered schedules. Satisfied by *scheduler.Scheduler.
type ScheduleSource interface {
	Entries() []scheduler.EntryStatus
}

// Server is the read-only status HTTP server.
type Server struct {
	signals    SignalSource
	schedules  ScheduleSource
	log        *logger.Logger
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a status server over the given sources.
func NewServer(signals SignalSource, schedules ScheduleSource, log *logger.Logger) *Server {
	return &Server{
		signals:   signals,
		schedules: schedules,
		log:       log,
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/signals", s.handleSignals).Methods("GET")
	router.HandleFunc("/api/v1/schedules", s.handleSchedules).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	return router
}

// Start begins serving on the given address. If address is empty or ":0",
// a random available port is used.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("status server stopped", zap.Error(err))
		}
	}()

	s.log.Info("status server listening", zap.String("address", s.Address()))
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type signalsResponse struct {
	Total   int            `json:"total"`
	Signals []types.Signal `json:"signals"`
}

type schedulesResponse struct {
	Total     int                     `json:"total"`
	Schedules []scheduler.EntryStatus `json:"schedules"`
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	signals := s.signals.Snapshot()

	query := r.URL.Query()
	if strategy := query.Get("strategy"); strategy != "" {
		signals = filterSignals(signals, func(sig types.Signal) bool { return sig.Strategy == strategy })
	}
	if symbol := query.Get("symbol"); symbol != "" {
		signals = filterSignals(signals, func(sig types.Signal) bool { return sig.Symbol == symbol })
	}

	writeJSON(w, signalsResponse{Total: len(signals), Signals: signals})
}

func (s *Server) handleSchedules(w http.ResponseWriter, _ *http.Request) {
	entries := s.schedules.Entries()
	writeJSON(w, schedulesResponse{Total: len(entries), Schedules: entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":         "ok",
		"signals_logged": s.signals.Len(),
	})
}

func filterSignals(signals []types.Signal, keep func(types.Signal) bool) []types.Signal {
	filtered := make([]types.Signal, 0, len(signals))
	for _, sig := range signals {
		if keep(sig) {
			filtered = append(filtered, sig)
		}
	}
	return filtered
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
