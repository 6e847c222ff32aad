package picker

import (
	"context"
	"fmt"

	"github.com/runger/quickopen/internal/config"
	"github.com/runger/quickopen/internal/quickopen"
)

// Provider is the interface for data sources that supply candidates to the
// picker. The candidates of one session are loaded once; filtering happens
// in the picker.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// Request describes what the picker wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	SessionID string // Correlates provider logs with the session
}

// Response carries candidates back from a Provider.
type Response struct {
	RequestID   uint64 // Must match Request.RequestID to be accepted
	Candidates []quickopen.Candidate
}

// AggregateProvider implements Provider by running the source collectors.
type AggregateProvider struct {
	cfg  *config.Config
	deps quickopen.Deps
}

// Compile-time check that AggregateProvider implements Provider.
var _ Provider = (*AggregateProvider)(nil)

// NewAggregateProvider creates a provider collecting from the sources
// enabled in cfg.
func NewAggregateProvider(cfg *config.Config, deps quickopen.Deps) *AggregateProvider {
	return &AggregateProvider{cfg: cfg, deps: deps}
}

// Fetch aggregates candidates. A cancelled context discards the result.
func (p *AggregateProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	deps := p.deps
	deps.SessionID = req.SessionID

	res, err := quickopen.Aggregate(ctx, p.cfg, deps)
	if err != nil {
		return Response{}, fmt.Errorf("aggregate provider: %w", err)
	}
	return Response{RequestID: req.RequestID, Candidates: res.Candidates}, nil
}
