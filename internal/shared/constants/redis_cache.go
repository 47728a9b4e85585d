package constants

import (
	"time"
)

// Redis key layout for eventdesk.
// Pattern: eventdesk:{module}:{purpose}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SESSION_LONG = 7 * 24 * time.Hour // 7 days - matches the token cookie lifetime
	TTL_SESSION_DAY  = 24 * time.Hour     // 24 hours - for per-session view state
	TTL_PROFILE      = 5 * time.Minute    // 5 minutes - for cached account profiles
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "eventdesk"
)

// ================== VIEW STATE ==================

// Per-session listing state, keyed by the token fingerprint
const (
	CACHE_KEY_VIEW_STATE  = CACHE_PREFIX + ":view:state:"  // + session-key (hash: draft, active, events, ticket, refreshed_at)
	CACHE_KEY_VIEW_TICKET = CACHE_PREFIX + ":view:ticket:" // + session-key (latest issued listing ticket)
)

const (
	TTL_VIEW_STATE = TTL_SESSION_DAY
)

// ================== USERS ==================

const (
	CACHE_KEY_PROFILE = CACHE_PREFIX + ":users:profile:" // + session-key
)

const (
	TTL_PROFILE_CACHE = TTL_PROFILE
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + client-ip:limit-type
)

// ================== HELPER FUNCTIONS ==================

func BuildViewStateKey(sessionKey string) string {
	return CACHE_KEY_VIEW_STATE + sessionKey
}

func BuildViewTicketKey(sessionKey string) string {
	return CACHE_KEY_VIEW_TICKET + sessionKey
}

func BuildProfileKey(sessionKey string) string {
	return CACHE_KEY_PROFILE + sessionKey
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return CACHE_KEY_RATE_LIMIT + clientIP + ":" + limitType
}
