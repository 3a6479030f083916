package provider

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPair signals that the provider cannot translate between
// the requested language pair. The dispatcher maps it to an empty
// successful result rather than an error.
var ErrUnsupportedPair = errors.New("language pair not supported by provider")

// ParseError signals that a provider returned content that could not be
// interpreted in the expected shape. Typical for generative providers
// answering conversationally where structured output was requested.
type ParseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unparseable response: %s", e.Provider, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransportError signals a network failure, timeout, or unexpected HTTP
// status. Distinguishable from "provider has no translation".
type TransportError struct {
	Provider string
	Status   int // 0 when the failure happened below HTTP
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: transport failure: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
