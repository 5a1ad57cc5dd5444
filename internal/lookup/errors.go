package lookup

import (
	apperrors "gstrelay/pkg/errors"
)

func notFound(gstin string) error {
	return apperrors.ErrNotFound.
		WithDetail("message", "gstin not registered").
		WithDetail("gstin", gstin)
}

func unavailable(gstin string, cause error) error {
	return apperrors.ErrServiceUnavailable.
		WithCause(cause).
		WithDetail("gstin", gstin)
}

// IsNotFound reports whether the provider answered but does not know the identifier.
func IsNotFound(err error) bool {
	return apperrors.IsNotFound(err)
}

// IsUnavailable reports whether the provider could not be reached or failed.
func IsUnavailable(err error) bool {
	return apperrors.IsServiceUnavailable(err)
}
