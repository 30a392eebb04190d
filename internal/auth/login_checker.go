package auth

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	sessionCacheSize = 4 * 1024 * 1024
	// upper bound for how long a logout on another instance goes unnoticed
	maxCachedSessionTTL = time.Minute
)

// LoginChecker resolves session tokens to user ids. Redis is the source of
// truth; resolved sessions are kept shortly in an in-process freecache.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	cache       *freecache.Cache
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		cache:       freecache.NewCache(sessionCacheSize),
		NowFunc:     time.Now,
	}
}

func (as *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := as.SessionUser(ctx, token)
	if errors.Is(err, ErrNotLogged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SessionUser returns the owner of a live session, or ErrNotLogged.
func (as *LoginChecker) SessionUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotLogged
	}

	cacheKey := []byte(token)
	if userID, err := as.cache.Get(cacheKey); err == nil {
		return string(userID), nil
	}

	session, err := getSession(ctx, as.redisClient, token)
	if err != nil {
		return "", err
	}

	left := as.ttl - as.NowFunc().Sub(session.CreatedAt)
	if left <= 0 {
		return "", ErrNotLogged
	}

	// 0 means no expiry for freecache, so sessions about to expire are not cached
	if cacheSeconds := int(min(left, maxCachedSessionTTL).Seconds()); cacheSeconds > 0 {
		if err := as.cache.Set(cacheKey, []byte(session.UserID), cacheSeconds); err != nil {
			log.Warnf("login checker, cache session: %s", err)
		}
	}

	return session.UserID, nil
}

// Forget drops the token from the local cache, used on logout.
func (as *LoginChecker) Forget(token string) {
	as.cache.Del([]byte(token))
}
