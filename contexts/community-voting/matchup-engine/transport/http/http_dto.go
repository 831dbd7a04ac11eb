package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CandidateSummary struct {
	ProjectID     string  `json:"project_id"`
	ShipEventID   string  `json:"ship_event_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	EffortSeconds float64 `json:"effort_seconds"`
}

type MatchupResponse struct {
	FirstShipEventID  string             `json:"first_ship_event_id"`
	SecondShipEventID string             `json:"second_ship_event_id"`
	Candidates        []CandidateSummary `json:"candidates"`
	Signature         string             `json:"signature"`
}

type SubmitVoteRequest struct {
	FirstShipEventID  string `json:"first_ship_event_id"`
	SecondShipEventID string `json:"second_ship_event_id"`
	Signature         string `json:"signature"`
	Winner            string `json:"winner"`
	Rationale         string `json:"rationale,omitempty"`
	TimeSpentMS       int64  `json:"time_spent_ms,omitempty"`
}

type VoteResponse struct {
	VoteID            string `json:"vote_id"`
	FirstShipEventID  string `json:"first_ship_event_id"`
	SecondShipEventID string `json:"second_ship_event_id"`
	VoterID           string `json:"voter_id"`
	WinnerProjectID   string `json:"winner_project_id,omitempty"`
	Tie               bool   `json:"tie"`
	Replayed          bool   `json:"replayed"`
}

type VoteHistoryItem struct {
	VoteID            string `json:"vote_id"`
	FirstShipEventID  string `json:"first_ship_event_id"`
	SecondShipEventID string `json:"second_ship_event_id"`
	WinnerProjectID   string `json:"winner_project_id,omitempty"`
	Tie               bool   `json:"tie"`
	CreatedAt         string `json:"created_at"`
}

type VoteHistoryResponse struct {
	Items []VoteHistoryItem `json:"items"`
}
