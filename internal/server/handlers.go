package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"github.com/leapstack-labs/sqlnorm/pkg/splitter"
)

// sqlRequest is the body shared by all three API endpoints. Dialect is
// optional; empty means auto-detect.
type sqlRequest struct {
	SQL     string `json:"sql"`
	Dialect string `json:"dialect,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type detectResponse struct {
	Dialect    dialect.ID         `json:"dialect,omitempty"`
	Confidence string             `json:"confidence"`
	Scores     map[dialect.ID]int `json:"scores"`
	Hints      []string           `json:"hints,omitempty"`
}

type normalizeResponse struct {
	Results []normalize.Result `json:"results"`
}

type splitResponse struct {
	Statements []string `json:"statements"`
	Count      int      `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	det := dialect.Detect(req.SQL)
	writeJSON(w, http.StatusOK, detectResponse{
		Dialect:    det.Dialect,
		Confidence: det.Confidence.String(),
		Scores:     det.Scores,
		Hints:      normalize.Hints(det),
	})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	hint := dialect.Unknown
	if req.Dialect != "" {
		d, ok := dialect.Parse(req.Dialect)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown dialect %q", req.Dialect)})
			return
		}
		hint = d
	}

	writeJSON(w, http.StatusOK, normalizeResponse{
		Results: s.pipeline.NormalizeScript(req.SQL, hint),
	})
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	stmts := splitter.Statements(req.SQL)
	writeJSON(w, http.StatusOK, splitResponse{Statements: stmts, Count: len(stmts)})
}

// decodeRequest parses the body, enforcing the size and statement ceilings.
// On failure the error response is already written.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (sqlRequest, bool) {
	var req sqlRequest

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes)})
			return req, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return req, false
	}

	if req.SQL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing sql field"})
		return req, false
	}

	if n := splitter.Count(req.SQL); n > s.cfg.MaxStatements {
		writeJSON(w, http.StatusUnprocessableEntity,
			errorResponse{Error: fmt.Sprintf("script has %d statements, limit is %d", n, s.cfg.MaxStatements)})
		return req, false
	}

	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
