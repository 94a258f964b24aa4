package resilience

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"elecciones-rag-be/pkg/llm"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// attempting the upstream request.
var ErrCircuitOpen = errors.New("llm circuit breaker open")

// ErrTimeout marks a call that exceeded the per-invocation wall-clock bound.
var ErrTimeout = errors.New("llm call timed out")

var retryInPattern = regexp.MustCompile(`(?i)retry in (\d+\.?\d*)s`)

// IsResourceExhausted reports whether an error corresponds to a
// 429/RESOURCE_EXHAUSTED condition. Checks, in order: the typed provider
// error status code, the provider status string, and finally a substring
// match on the message as a last resort.
func IsResourceExhausted(err error) bool {
	if err == nil {
		return false
	}

	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		if pe.StatusCode == 429 {
			return true
		}
		if strings.EqualFold(pe.Status, "RESOURCE_EXHAUSTED") {
			return true
		}
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "resource_exhausted") || strings.Contains(message, "429")
}

// IsTimeout reports whether an error is the per-call timeout condition.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// ExtractRetryDelay returns the provider-suggested wait in seconds, if the
// error carries one: either the structured RetryInfo field or a
// "retry in N.Ns" fragment embedded in the message.
func ExtractRetryDelay(err error) (float64, bool) {
	if err == nil {
		return 0, false
	}

	var pe *llm.ProviderError
	if errors.As(err, &pe) && pe.RetryAfterSec > 0 {
		return pe.RetryAfterSec, true
	}

	if match := retryInPattern.FindStringSubmatch(err.Error()); match != nil {
		if secs, parseErr := strconv.ParseFloat(match[1], 64); parseErr == nil && secs > 0 {
			return secs, true
		}
	}

	return 0, false
}
