// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import "time"

// Default failed-attempt limits for Login and VerifyTOTP.
const (
	DefaultMaxFailures   = 5
	DefaultFailureWindow = 15 * time.Minute
)

// attemptLimiter counts failed checks in a sliding window.
type attemptLimiter struct {
	limit    int           // max failures per window
	window   time.Duration // sliding window duration
	failures []time.Time
}

// allow reports whether another attempt may be made at now.
func (l *attemptLimiter) allow(now time.Time) bool {
	cutoff := now.Add(-l.window)

	// Remove expired timestamps.
	valid := l.failures[:0]
	for _, ts := range l.failures {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	l.failures = valid

	return len(l.failures) < l.limit
}

func (l *attemptLimiter) fail(now time.Time) {
	l.failures = append(l.failures, now)
}

func (l *attemptLimiter) reset() {
	l.failures = nil
}
