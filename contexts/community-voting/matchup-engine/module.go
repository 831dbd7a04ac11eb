package matchupengine

import (
	"log/slog"
	"time"

	httpadapter "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/adapters/http"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/adapters/memory"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application/commands"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application/queries"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/entities"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/pairing"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/ticket"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Catalog            ports.CandidateCatalog
	Votes              ports.VoteRepository
	Idempotency        ports.IdempotencyStore
	Outbox             ports.OutboxWriter
	Clock              ports.Clock
	IDGen              ports.IDGenerator
	SigningSecret      []byte
	Policy             pairing.Policy
	NewRand            func() pairing.Rand
	MinRationaleLength int
	IdempotencyTTL     time.Duration
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	signer := ticket.NewSigner(deps.SigningSecret)
	matchupUseCase := queries.MatchupUseCase{
		Catalog: deps.Catalog,
		Votes:   deps.Votes,
		Signer:  signer,
		Policy:  deps.Policy,
		NewRand: deps.NewRand,
		Logger:  deps.Logger,
	}
	submitUseCase := commands.SubmitVoteUseCase{
		Catalog:            deps.Catalog,
		Votes:              deps.Votes,
		Idempotency:        deps.Idempotency,
		Outbox:             deps.Outbox,
		Clock:              deps.Clock,
		IDGen:              deps.IDGen,
		Signer:             signer,
		MinRationaleLength: deps.MinRationaleLength,
		IdempotencyTTL:     deps.IdempotencyTTL,
		Logger:             deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Matchups: matchupUseCase,
			Votes:    submitUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Candidate, secret []byte, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Catalog:        store,
		Votes:          store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		SigningSecret:  secret,
		Policy:         pairing.DefaultPolicy(),
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
