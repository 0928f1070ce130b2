package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// RateLimitConfig tunes the Redis token bucket protecting the /v1 API.
// The callers are authenticated booking services, not end users, so the
// default key strategy buckets by token subject and route: one misbehaving
// frontend hammering the reserve endpoint cannot starve the others.
type RateLimitConfig struct {
	Enabled        bool          // master switch
	Capacity       int           // bucket size, also the allowed burst
	RefillTokens   int           // tokens added per refill interval
	RefillInterval time.Duration // how often tokens are added
	TTL            time.Duration // bucket key expiry in Redis
	KeyStrategy    string        // actor, ip, route, actor_route, ip_actor, ip_route
	Prefix         string        // Redis key namespace
	Debug          bool          // expose the bucket key and log decisions
}

// LoadRateLimitConfig reads the limiter settings from the environment.
// Defaults allow a burst of 30 requests and a sustained 10 per second
// per actor and route, which comfortably covers a busy booking frontend
// while still capping a runaway retry loop.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        boolv("RATE_LIMIT_ENABLED", true),
		Capacity:       intv("RATE_LIMIT_BURST", 30),
		RefillTokens:   intv("RATE_LIMIT_REFILL_TOKENS", 10),
		RefillInterval: dur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            dur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "actor_route"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
		Debug:          boolv("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// Keys must outlive several refill cycles or an idle bucket resets
	// to full capacity and the burst cap stops meaning anything.
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

// boolv reads an optional boolean variable, falling back to the default
// when unset or unparseable.
func boolv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid bool for %s: %q, using %t", key, v, def)
		return def
	}
	return b
}
