// Package ticket issues and verifies stateless matchup tickets. A ticket binds
// a pair of ship events to one voter with a keyed MAC, so a submitted vote can
// be checked without any server-side pairing state.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type Signer struct {
	secret []byte
}

func NewSigner(secret []byte) Signer {
	return Signer{secret: secret}
}

// Sign returns the hex HMAC-SHA256 over the canonical ticket payload. The two
// ship event ids are sorted before signing, so the pair order presented to the
// voter never affects the signature.
func (s Signer) Sign(shipEventA, shipEventB, voterID string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write(canonicalPayload(shipEventA, shipEventB, voterID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected signature from the claimed inputs and
// compares in constant time. Any mismatch, including a signature issued to a
// different voter or for a different pair, yields false and nothing else.
func (s Signer) Verify(signature, shipEventA, shipEventB, voterID string) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write(canonicalPayload(shipEventA, shipEventB, voterID))
	return hmac.Equal(provided, mac.Sum(nil))
}

func canonicalPayload(shipEventA, shipEventB, voterID string) []byte {
	first := strings.TrimSpace(shipEventA)
	second := strings.TrimSpace(shipEventB)
	if second < first {
		first, second = second, first
	}
	// json.Marshal sorts map keys, which keeps the encoding deterministic.
	payload, _ := json.Marshal(map[string]string{
		"first_ship_event":  first,
		"second_ship_event": second,
		"voter_id":          strings.TrimSpace(voterID),
	})
	return payload
}
