package agent

import "github.com/maxbolgarin/errm"

var (
	// ErrToolUnavailable means the generator is not installed or not configured
	ErrToolUnavailable = errm.New("text generator is not available")
	// ErrToolTimeout means the generator did not answer within the timeout
	ErrToolTimeout = errm.New("text generator timed out")
	// ErrToolFailure means the generator ran but failed
	ErrToolFailure = errm.New("text generator failed")
	// ErrEmptyResponse means the generator returned no usable text
	ErrEmptyResponse = errm.New("empty response from text generator")
)
