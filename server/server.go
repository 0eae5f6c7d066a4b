// Package server is the thin HTTP layer over the detection pipeline.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sandwatch/config"
	"sandwatch/detect"
	"sandwatch/types"
)

type Server struct {
	detector *detect.Detector
	cfg      *config.Config
	logger   *slog.Logger
}

func New(detector *detect.Detector, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{detector: detector, cfg: cfg, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	return mux
}

// ListenAndServe blocks until the context is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	TokenAddress string `json:"tokenAddress"`
	// Accepted as a JSON number or a string; empty means the configured
	// default.
	LookbackLimit json.RawMessage `json:"lookbackLimit"`
}

type analyzeResponse struct {
	Status string `json:"status"`
	*types.DetectionResult
}

type errorResponse struct {
	Status  string           `json:"status"`
	Kind    detect.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, detect.Errorf(detect.KindInvalidInput, "invalid request body: %v", err))
		return
	}

	limit, err := s.lookbackFromRequest(req.LookbackLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.detector.Detect(r.Context(), req.TokenAddress, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Status: "success", DetectionResult: res})
}

func (s *Server) lookbackFromRequest(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return s.cfg.DefaultLookbackLimit, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n <= 0 {
			return 0, detect.Errorf(detect.KindInvalidInput, "lookback limit must be a positive integer")
		}
		return n, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return detect.ParseLookback(str)
	}
	return 0, detect.Errorf(detect.KindInvalidInput, "invalid lookback limit")
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := detect.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case detect.KindInvalidInput:
		status = http.StatusBadRequest
	case detect.KindProviderUnavailable:
		status = http.StatusBadGateway
	}

	msg := err.Error()
	var de *detect.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	s.logger.Warn("Request failed", "kind", kind, "status", status, "err", err)
	writeJSON(w, status, errorResponse{Status: "error", Kind: kind, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
