package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// HTTP constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Assignment capacity constants
const (
	// SettingKeyMaxConcurrentInfluencers is the settings key for the global
	// per-agent ceiling on concurrently active influencers.
	SettingKeyMaxConcurrentInfluencers = "max_concurrent_influencers"

	// SettingKeyMaxInfluencersPerAssignment is the settings key for the
	// per-agent-per-campaign-list ceiling.
	SettingKeyMaxInfluencersPerAssignment = "max_influencers_per_assignment"

	// DefaultMaxConcurrentInfluencers applies when no settings row exists.
	DefaultMaxConcurrentInfluencers = 100

	// DefaultMaxInfluencersPerAssignment applies when no settings row exists.
	DefaultMaxInfluencersPerAssignment = 20

	// MaxDistributionAgents caps how many agents the heuristic fallback spreads
	// a batch across when capacity data is unavailable.
	MaxDistributionAgents = 6
)

// Contact attempt constants
const (
	// MaxContactAttempts is the attempt count at which an assigned influencer
	// is moved to max_attempts_reached.
	MaxContactAttempts = 3

	// DefaultFollowupDelayHours applies when a follow-up template carries no
	// positive delay of its own.
	DefaultFollowupDelayHours = 24
)

// Cache key constants
const (
	// SettingsCacheKey is the redis key prefix for cached platform settings.
	SettingsCacheKey = "platform_settings"

	// SettingsCacheTTL bounds how stale a cached settings value may get.
	SettingsCacheTTL = 5 * time.Minute
)

// RequestIDKey is the context key for request IDs
const RequestIDKey = "X-Request-ID"
