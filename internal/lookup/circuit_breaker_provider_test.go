package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrelay/pkg/circuitbreaker"
)

func TestCircuitBreakerProvider_NotFoundDoesNotTrip(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(ctx context.Context, id string) (*StatusRecord, error) {
		calls++
		return nil, notFound(id)
	})
	p := NewCircuitBreakerProvider(inner, circuitbreaker.DefaultConfig("cb-notfound"))

	for i := 0; i < 5; i++ {
		_, err := p.Lookup(context.Background(), testGSTIN)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	}
	assert.Equal(t, 5, calls)
	assert.Equal(t, "closed", p.State())
}

func TestCircuitBreakerProvider_OpensOnUnavailable(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(ctx context.Context, id string) (*StatusRecord, error) {
		calls++
		return nil, unavailable(id, errors.New("connection refused"))
	})
	p := NewCircuitBreakerProvider(inner, circuitbreaker.DefaultConfig("cb-unavailable"))

	for i := 0; i < 3; i++ {
		_, err := p.Lookup(context.Background(), testGSTIN)
		assert.True(t, IsUnavailable(err))
	}
	assert.Equal(t, "open", p.State())

	_, err := p.Lookup(context.Background(), testGSTIN)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, 3, calls)
}

func TestCircuitBreakerProvider_PassesRecord(t *testing.T) {
	want := &StatusRecord{GSTIN: testGSTIN, BusinessName: "ACME"}
	inner := ProviderFunc(func(ctx context.Context, id string) (*StatusRecord, error) {
		return want, nil
	})
	p := NewCircuitBreakerProvider(inner, circuitbreaker.DefaultConfig("cb-pass"))

	got, err := p.Lookup(context.Background(), testGSTIN)
	require.NoError(t, err)
	assert.Same(t, want, got)
}
