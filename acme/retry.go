package acme

import (
	"net/http"
	"strconv"
	"time"
)

// ParseRetryAfter reads the Retry-After header of resp, if present, and
// returns the larger of it and fallback. Only the delay-seconds form is
// parsed; the HTTP-date form is not used by any known ACME server and is
// ignored.
func ParseRetryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if resp == nil {
		return fallback
	}

	h := resp.Header.Get("Retry-After")
	if h == "" {
		return fallback
	}

	seconds, err := strconv.Atoi(h)
	if err != nil || seconds < 0 {
		return fallback
	}

	retryAfter := time.Duration(seconds) * time.Second
	if retryAfter > fallback {
		return retryAfter
	}
	return fallback
}
