// Package models defines rate limit rules and check results.
package models

import "time"

// Rule limits how often one client may hit one endpoint.
type Rule struct {
	// Name is the bucket namespace, such as "death_reports".
	Name   string
	Limit  int
	Window time.Duration
}

// Key is the bucket key for a client under this rule.
func (r Rule) Key(client string) string {
	return "rl:" + r.Name + ":" + client
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}

// Denied builds the result for a rejected request whose oldest counted hit
// expires at resetAt.
func Denied(limit int, resetAt, now time.Time) *RateLimitResult {
	retry := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	return &RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: max(retry, 1),
	}
}
