package lookup

import (
	"context"
	"fmt"

	"gstrelay/pkg/circuitbreaker"
)

// CircuitBreakerProvider stops calling a failing provider for a while. Only
// unavailability counts as a failure; an unknown GSTIN is a successful answer.
type CircuitBreakerProvider struct {
	provider Provider
	cb       *circuitbreaker.Wrapper
}

func NewCircuitBreakerProvider(provider Provider, cfg circuitbreaker.Config) *CircuitBreakerProvider {
	return &CircuitBreakerProvider{
		provider: provider,
		cb:       circuitbreaker.NewWrapper(cfg),
	}
}

type notFoundResult struct {
	err error
}

func (p *CircuitBreakerProvider) Lookup(ctx context.Context, id string) (*StatusRecord, error) {
	result, err := p.cb.Execute(ctx, func() (interface{}, error) {
		record, err := p.provider.Lookup(ctx, id)
		if err != nil && IsNotFound(err) {
			return notFoundResult{err: err}, nil
		}
		return record, err
	})
	if err != nil {
		if IsUnavailable(err) {
			return nil, err
		}
		if p.cb.IsOpen() {
			return nil, unavailable(id, fmt.Errorf("circuit breaker is open for %s: %w", p.cb.Name(), err))
		}
		return nil, unavailable(id, err)
	}

	switch v := result.(type) {
	case notFoundResult:
		return nil, v.err
	case *StatusRecord:
		if v == nil {
			return nil, unavailable(id, fmt.Errorf("provider returned nil record"))
		}
		return v, nil
	default:
		return nil, unavailable(id, fmt.Errorf("provider returned invalid result type %T", result))
	}
}

func (p *CircuitBreakerProvider) State() string {
	return p.cb.State().String()
}
