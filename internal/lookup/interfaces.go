package lookup

import (
	"context"
)

// Provider resolves a validated GSTIN to its filing status.
//
// Implementations return an error satisfying IsNotFound when the identifier is
// unknown and one satisfying IsUnavailable when the lookup itself failed.
type Provider interface {
	Lookup(ctx context.Context, gstin string) (*StatusRecord, error)
}

type ProviderFunc func(ctx context.Context, gstin string) (*StatusRecord, error)

func (f ProviderFunc) Lookup(ctx context.Context, gstin string) (*StatusRecord, error) {
	return f(ctx, gstin)
}
