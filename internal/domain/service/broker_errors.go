package service

import (
	"fmt"
	"regexp"
	"strings"
)

// OperationError reports a broker call that either signaled an explicit
// failure or returned a response the expected identifier could not be
// extracted from. It carries the raw response for diagnostics.
type OperationError struct {
	Op       string
	Resource string
	Response CreateResponse
	Err      error
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("broker operation %s failed for %s", e.Op, e.Resource)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// EndpointConflictError reports that the broker rejected an endpoint create
// because an endpoint for the same token already exists. The existing remote
// identifier is recovered from the broker's error text so the caller can
// adopt it instead of failing.
type EndpointConflictError struct {
	ExistingARN string
	Cause       error
}

func (e *EndpointConflictError) Error() string {
	return fmt.Sprintf("endpoint already exists as %s", e.ExistingARN)
}

func (e *EndpointConflictError) Unwrap() error {
	return e.Cause
}

// The broker embeds the existing ARN between "Endpoint" and "already" in its
// conflict message.
var endpointConflictRe = regexp.MustCompile(`(?i)Endpoint(.*)already`)

// ParseEndpointConflict inspects a broker error for the endpoint-exists
// conflict and, when matched, returns the typed conflict error carrying the
// recovered identifier.
func ParseEndpointConflict(err error) (*EndpointConflictError, bool) {
	if err == nil {
		return nil, false
	}

	match := endpointConflictRe.FindStringSubmatch(err.Error())
	if match == nil {
		return nil, false
	}

	arn := strings.TrimSpace(match[1])
	if arn == "" {
		return nil, false
	}

	return &EndpointConflictError{ExistingARN: arn, Cause: err}, true
}
