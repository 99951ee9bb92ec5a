// Package httptransport wires every feature service into the public HTTP
// API: voter enrollment and authentication, elections, vote casting, and the
// admin control plane.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authflowservice "securevote/internal/authflow/service"
	"securevote/internal/credential"
	"securevote/internal/document"
	electionservice "securevote/internal/election/service"
	identityservice "securevote/internal/identity/service"
	ledgerservice "securevote/internal/ledger/service"
	"securevote/internal/platform/config"
	"securevote/internal/platform/metrics"
	"securevote/internal/platform/middleware"
	rollservice "securevote/internal/roll/service"
	"securevote/internal/voting"
)

const requestTimeout = 30 * time.Second

// Handlers bundles the feature services behind the router.
type Handlers struct {
	identity    *identityservice.Service
	document    *document.Service
	authflow    *authflowservice.Service
	elections   *electionservice.Service
	roll        *rollservice.Service
	ledger      *ledgerservice.Service
	voting      *voting.Service
	credentials *credential.Service
	cfg         config.Config
	logger      *slog.Logger
	metrics     *metrics.Metrics

	// health probes by component name, nil checks are skipped
	healthChecks map[string]HealthCheck
}

type Option func(*Handlers)

// WithMetrics enables per-route request latency observations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithHealthCheck registers a named backing-service probe on /api/health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handlers) {
		if check != nil {
			h.healthChecks[name] = check
		}
	}
}

func NewHandlers(
	identity *identityservice.Service,
	documentSvc *document.Service,
	authflow *authflowservice.Service,
	elections *electionservice.Service,
	roll *rollservice.Service,
	ledger *ledgerservice.Service,
	votingSvc *voting.Service,
	credentials *credential.Service,
	cfg config.Config,
	logger *slog.Logger,
	opts ...Option,
) *Handlers {
	h := &Handlers{
		identity:     identity,
		document:     documentSvc,
		authflow:     authflow,
		elections:    elections,
		roll:         roll,
		ledger:       ledger,
		voting:       votingSvc,
		credentials:  credentials,
		cfg:          cfg,
		logger:       logger,
		healthChecks: make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// credentialValidator adapts the credential service to the auth middleware.
type credentialValidator struct {
	credentials *credential.Service
}

func (v credentialValidator) Validate(tokenString string) (*middleware.CredentialClaims, error) {
	claims, err := v.credentials.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.CredentialClaims{VoterHandle: claims.VoterHandle, Role: claims.Role}, nil
}

// Router builds the full route tree.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(h.logger))
	if h.metrics != nil {
		r.Use(middleware.Metrics(h.metrics.ObserveRequest))
	}
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	requireAuth := middleware.RequireAuth(credentialValidator{credentials: h.credentials}, h.logger)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Post("/enroll", h.handleEnroll)
		r.Post("/verify-document", h.handleVerifyDocument)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/biometric", h.handleVerifyBiometric)
			r.Post("/code", h.handleIssueCode)
			r.Post("/verify", h.handleVerifyCode)
		})

		r.Get("/elections", h.handleListElections)
		r.Get("/elections/{electionID}", h.handleGetElection)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(credential.RoleVoter, h.logger))
			r.Post("/elections/{electionID}/vote", h.handleCastVote)
			r.Get("/elections/{electionID}/ballot-status", h.handleBallotStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.handleAdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(middleware.RequireRole(credential.RoleAdmin, h.logger))
				r.Post("/elections", h.handleCreateElection)
				r.Post("/elections/{electionID}/candidates", h.handleAddCandidate)
				r.Patch("/elections/{electionID}/status", h.handleSetElectionStatus)
				r.Post("/elections/{electionID}/voters", h.handleAuthorizeVoters)
				r.Delete("/identities/{voterHandle}", h.handleEraseIdentity)
				r.Get("/elections/{electionID}/tally", h.handleTally)
				r.Get("/ledger/verify", h.handleVerifyLedger)
			})
		})
	})

	return r
}
