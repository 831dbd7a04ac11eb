// Package matchupengine implements head-to-head project voting inside the
// community-voting context.
//
// The module owns candidate filtering, constrained weighted pair selection,
// stateless HMAC matchup tickets, and vote recording with outbox event
// production. It keeps business rules in application/domain layers and
// isolates infrastructure concerns behind ports and adapters.
package matchupengine
