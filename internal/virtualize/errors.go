package virtualize

import "errors"

var (
	// ErrInvalidItemSize is returned when the item size is not a positive
	// finite number.
	ErrInvalidItemSize = errors.New("virtualize: item size must be greater than zero")
	// ErrInvalidSource is returned unless exactly one of a fixed collection
	// or a provider is configured.
	ErrInvalidSource = errors.New("virtualize: exactly one of items or provider must be set")
	// ErrMissingTemplate is returned by hosts when no item template is set.
	ErrMissingTemplate = errors.New("virtualize: item template is required")
)

// ProviderError wraps a failure returned by a Source.
type ProviderError struct {
	Request Request
	Err     error
}

func (e *ProviderError) Error() string {
	return "virtualize: fetching items failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
