package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	matchupengine "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine"
	matchupdomainerrors "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/errors"
	matchuphttp "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/atomtables/summer-of-making/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	matchup matchupengine.Module
}

func New(matchup matchupengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		matchup: matchup,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/matchups/new", s.handleNewMatchup)
	s.mux.HandleFunc("POST /v1/votes", s.handleSubmitVote)
	s.mux.HandleFunc("GET /v1/votes", s.handleVoteHistory)
}

func (s *Server) handleNewMatchup(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(voterID) == "" {
		writeMatchupError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.matchup.Handler.NewMatchupHandler(r.Context(), voterID)
	if err != nil {
		writeMatchupDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(voterID) == "" {
		writeMatchupError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req matchuphttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMatchupError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.matchup.Handler.SubmitVoteHandler(
		r.Context(),
		voterID,
		r.Header.Get("Idempotency-Key"),
		req,
		resolveClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		writeMatchupDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteHistory(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(voterID) == "" {
		writeMatchupError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.matchup.Handler.VoteHistoryHandler(r.Context(), voterID)
	if err != nil {
		writeMatchupDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMatchupDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchupdomainerrors.ErrInsufficientCandidates):
		// Steady-state condition when the pool runs dry, not a server fault.
		writeMatchupError(w, http.StatusConflict, "insufficient_candidates", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrInvalidTicket):
		writeMatchupError(w, http.StatusForbidden, "invalid_signature", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrRationaleTooShort):
		writeMatchupError(w, http.StatusBadRequest, "rationale_too_short", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrInvalidWinner):
		writeMatchupError(w, http.StatusBadRequest, "invalid_winner", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrInvalidVoteInput):
		writeMatchupError(w, http.StatusBadRequest, "invalid_vote_input", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrCandidateNotFound):
		writeMatchupError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrVoteNotFound):
		writeMatchupError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrIdempotencyKeyRequired):
		writeMatchupError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, matchupdomainerrors.ErrIdempotencyConflict),
		errors.Is(err, matchupdomainerrors.ErrConflict):
		writeMatchupError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeMatchupError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMatchupError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, matchuphttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
