package genai

import "errors"

// Sentinel kinds for provider errors.
var (
	ErrNotConfigured  = errors.New("generative-text provider key not configured")
	ErrUpstreamStatus = errors.New("provider returned non-success status")
	ErrDecode         = errors.New("provider response decode failed")
	ErrEmptyCandidate = errors.New("provider response has no candidate text")
)
