package entities

import "time"

// Candidate is a certified project eligible for a head-to-head matchup,
// evaluated at its latest ship event. Effort and shipped time are pinned to
// that ship event, which is why tickets bind ship event ids rather than
// project ids.
type Candidate struct {
	ProjectID     string
	OwnerID       string
	ShipEventID   string
	RepoKey       string // shared-source dedupe key; empty when no repo is linked
	Title         string
	Description   string
	EffortSeconds float64
	Paid          bool
	ShippedAt     time.Time
}

// Vote is a recorded matchup decision. WinnerProjectID is empty when the
// voter declared a tie.
type Vote struct {
	VoteID            string
	FirstShipEventID  string
	SecondShipEventID string
	VoterID           string
	WinnerProjectID   string
	Tie               bool
	Rationale         string
	Signature         string
	TimeSpentMS       int64
	IPAddress         string
	UserAgent         string
	CreatedAt         time.Time
}

// CoversShipEvent reports whether the vote judged the given ship event on
// either side of the pair.
func (v Vote) CoversShipEvent(shipEventID string) bool {
	return v.FirstShipEventID == shipEventID || v.SecondShipEventID == shipEventID
}
