package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// Tier identifies which verification tier answered a lookup.
type Tier string

const (
	TierNone      Tier = "none"
	TierEphemeral Tier = "ephemeral"
	TierDurable   Tier = "durable"
)

const (
	cacheCheckPeriod = 10 * time.Second
	logoutFlagTTL    = 30 * time.Second
	logoutKeyPrefix  = "logout:"
)

// AuthCache holds verified identities in two tiers keyed by session token.
//
// The ephemeral tier has a short TTL and wins over the durable tier: a hit
// there means the identity was verified moments ago and nothing needs to
// be re-checked. The durable tier outlives it and is refreshed by
// background verification. A logout flag blocks in-flight verifications
// from resurrecting a session the user just ended.
type AuthCache struct {
	ephemeral *gocache.Cache
	durable   *gocache.Cache
	flags     *gocache.Cache
}

// NewAuthCache creates the two-tier cache from TTLs in seconds.
func NewAuthCache(ephemeralTTLSeconds, durableTTLSeconds int) *AuthCache {
	return &AuthCache{
		ephemeral: gocache.New(time.Duration(ephemeralTTLSeconds)*time.Second, cacheCheckPeriod),
		durable:   gocache.New(time.Duration(durableTTLSeconds)*time.Second, cacheCheckPeriod),
		flags:     gocache.New(logoutFlagTTL, cacheCheckPeriod),
	}
}

// Get looks up a verified identity, preferring the ephemeral tier.
func (ac *AuthCache) Get(token string) (*models.AuthCacheEntry, Tier) {
	if data, found := ac.ephemeral.Get(token); found {
		if entry, ok := data.(*models.AuthCacheEntry); ok {
			metrics.CacheHits.WithLabelValues("auth_ephemeral").Inc()
			return entry, TierEphemeral
		}
		logger.Error("Invalid auth cache data type, dropping entry")
		ac.ephemeral.Delete(token)
	}
	metrics.CacheMisses.WithLabelValues("auth_ephemeral").Inc()

	if data, found := ac.durable.Get(token); found {
		if entry, ok := data.(*models.AuthCacheEntry); ok {
			metrics.CacheHits.WithLabelValues("auth_durable").Inc()
			return entry, TierDurable
		}
		logger.Error("Invalid auth cache data type, dropping entry")
		ac.durable.Delete(token)
	}
	metrics.CacheMisses.WithLabelValues("auth_durable").Inc()

	return nil, TierNone
}

// Set stores a freshly verified identity in both tiers. Ignored while a
// logout for the token is in progress.
func (ac *AuthCache) Set(token string, entry *models.AuthCacheEntry) {
	if ac.LogoutInProgress(token) {
		logger.Debug("Skipping auth cache write, logout in progress",
			zap.String("email", entry.Email))
		return
	}

	ac.ephemeral.Set(token, entry, gocache.DefaultExpiration)
	ac.durable.Set(token, entry, gocache.DefaultExpiration)
}

// MarkLogout flags the token as logging out and drops it from both tiers.
func (ac *AuthCache) MarkLogout(token string) {
	ac.flags.Set(logoutKeyPrefix+token, true, gocache.DefaultExpiration)
	ac.ephemeral.Delete(token)
	ac.durable.Delete(token)
}

// LogoutInProgress reports whether the token was recently logged out.
func (ac *AuthCache) LogoutInProgress(token string) bool {
	_, found := ac.flags.Get(logoutKeyPrefix + token)
	return found
}

// Invalidate drops the token from both tiers without raising the logout
// flag. Used when background verification discovers a stale identity.
func (ac *AuthCache) Invalidate(token string) {
	ac.ephemeral.Delete(token)
	ac.durable.Delete(token)
}

// Flush clears everything. Used in tests.
func (ac *AuthCache) Flush() {
	ac.ephemeral.Flush()
	ac.durable.Flush()
	ac.flags.Flush()
}
