package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	matchupengine "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	httptransport "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/transport/http"
)

func newTestServer(seed []entities.Candidate) *Server {
	module := matchupengine.NewInMemoryModule(seed, []byte("http-test-secret"), nil)
	return New(module, nil, ":0")
}

func testCandidates() []entities.Candidate {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return []entities.Candidate{
		{ProjectID: "project-1", OwnerID: "owner-1", ShipEventID: "ship-1", Title: "pixel garden", EffortSeconds: 36000, ShippedAt: base},
		{ProjectID: "project-2", OwnerID: "owner-2", ShipEventID: "ship-2", Title: "habit tracker", EffortSeconds: 39600, ShippedAt: base.Add(time.Hour)},
	}
}

func TestMatchupAndVoteEndpoints(t *testing.T) {
	server := newTestServer(testCandidates())

	request := httptest.NewRequest(http.MethodGet, "/v1/matchups/new", nil)
	request.Header.Set("X-User-Id", "voter-9")
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("matchup request returned %d: %s", recorder.Code, recorder.Body.String())
	}

	var matchup httptransport.MatchupResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &matchup); err != nil {
		t.Fatalf("decode matchup response: %v", err)
	}
	if matchup.Signature == "" || len(matchup.Candidates) != 2 {
		t.Fatalf("unexpected matchup response: %+v", matchup)
	}

	body, _ := json.Marshal(httptransport.SubmitVoteRequest{
		FirstShipEventID:  matchup.FirstShipEventID,
		SecondShipEventID: matchup.SecondShipEventID,
		Signature:         matchup.Signature,
		Winner:            matchup.Candidates[0].ProjectID,
		Rationale:         "the first project feels far more finished",
	})
	request = httptest.NewRequest(http.MethodPost, "/v1/votes", bytes.NewReader(body))
	request.Header.Set("X-User-Id", "voter-9")
	request.Header.Set("Idempotency-Key", "idem-http-1")
	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("vote request returned %d: %s", recorder.Code, recorder.Body.String())
	}

	var vote httptransport.VoteResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &vote); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if vote.WinnerProjectID != matchup.Candidates[0].ProjectID {
		t.Fatalf("unexpected winner %s", vote.WinnerProjectID)
	}

	request = httptest.NewRequest(http.MethodGet, "/v1/votes", nil)
	request.Header.Set("X-User-Id", "voter-9")
	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("history request returned %d: %s", recorder.Code, recorder.Body.String())
	}
	var history httptransport.VoteHistoryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	if len(history.Items) != 1 || history.Items[0].VoteID != vote.VoteID {
		t.Fatalf("unexpected history: %+v", history.Items)
	}
}

func TestVoteEndpointRejectsBadSignature(t *testing.T) {
	server := newTestServer(testCandidates())

	body, _ := json.Marshal(httptransport.SubmitVoteRequest{
		FirstShipEventID:  "ship-1",
		SecondShipEventID: "ship-2",
		Signature:         "deadbeef",
		Winner:            "project-1",
		Rationale:         "forged ticket should never be accepted",
	})
	request := httptest.NewRequest(http.MethodPost, "/v1/votes", bytes.NewReader(body))
	request.Header.Set("X-User-Id", "voter-9")
	request.Header.Set("Idempotency-Key", "idem-http-1")
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for bad signature, got %d", recorder.Code)
	}

	var problem httptransport.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if problem.Code != "invalid_signature" {
		t.Fatalf("unexpected error code %s", problem.Code)
	}
}

func TestMatchupEndpointStatusMapping(t *testing.T) {
	server := newTestServer(nil)

	request := httptest.NewRequest(http.MethodGet, "/v1/matchups/new", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", recorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/v1/matchups/new", nil)
	request.Header.Set("X-User-Id", "voter-9")
	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an empty pool, got %d", recorder.Code)
	}

	var problem httptransport.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if problem.Code != "insufficient_candidates" {
		t.Fatalf("unexpected error code %s", problem.Code)
	}
}

func TestVoteEndpointRejectsMalformedBody(t *testing.T) {
	server := newTestServer(testCandidates())

	request := httptest.NewRequest(http.MethodPost, "/v1/votes", bytes.NewBufferString("{not json"))
	request.Header.Set("X-User-Id", "voter-9")
	request.Header.Set("Idempotency-Key", "idem-http-1")
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", recorder.Code)
	}
}
