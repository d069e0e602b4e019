package usecase

import (
	"context"
	"errors"
	"strings"
)

// permanenter is implemented by provider errors that know their own
// durability, such as HTTP client errors from the stats provider.
type permanenter interface {
	PermanentFailure() bool
}

// permanentIndicators classifies failures by message when the error carries
// no durability of its own. These phrases come from the upstream's own error
// bodies for requests that can never succeed, no matter how often retried.
var permanentIndicators = []string{
	"invalid game id",
	"invalid player id",
	"invalid team id",
	"invalid person id",
	"bad request",
	"unauthorized",
	"forbidden",
	"status 400",
	"status 401",
	"status 403",
	"unknown parameter",
	"parameter is required",
	"invalid parameter",
}

// ClassifyFailure decides whether a collection error is permanent. Permanent
// failures are excluded from future resolution; everything else stays
// retryable. Context cancellation is never permanent.
func ClassifyFailure(err error) (reason string, permanent bool) {
	if err == nil {
		return "", false
	}
	reason = err.Error()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return reason, false
	}

	var p permanenter
	if errors.As(err, &p) {
		return reason, p.PermanentFailure()
	}

	lower := strings.ToLower(reason)
	for _, indicator := range permanentIndicators {
		if strings.Contains(lower, indicator) {
			return reason, true
		}
	}
	return reason, false
}
