package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/Ankush-patel1/Fitness/pkg"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitness-session||"
	tokensSetKey     = "fitness-sessions"

	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
)

var (
	ErrNotLogged    = errors.New("not logged in")
	ErrInvalidToken = errors.New("invalid token")
)

type LoginSession struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// Service manages session tokens. A session is a redis hash holding the owner
// and creation time; all live tokens are also kept in one set for cleanup.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, userID string, createdAt time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("login: empty user id")
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdHSet := as.redisClient.HSet(ctx, sessionKey, fieldUserID, userID, fieldCreatedAt, createdAt.Unix())
	if err := cmdHSet.Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	session, err := getSession(ctx, as.redisClient, token)
	if err != nil {
		return false, err
	}

	if err := as.removeSession(ctx, token); err != nil {
		return false, err
	}

	return session.CreatedAt.Unix() > 0, nil
}

func (as *Service) removeSession(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return err
	}
	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		session, err := getSession(ctx, as.redisClient, token)
		if errors.Is(err, ErrNotLogged) {
			// hash already gone, only the set entry is left
			toRemove = append(toRemove, token)
			continue
		} else if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		if time.Since(session.CreatedAt) > as.ttl {
			log.Debugf("=>\twill clean the session of user: %s", session.UserID)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.removeSession(ctx, token); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
		}
	}
}

func getSession(ctx context.Context, rdb *redis.Client, token string) (*LoginSession, error) {
	cmd := rdb.HGetAll(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return nil, err
	}

	fields := cmd.Val()
	userID := fields[fieldUserID]
	if len(fields) == 0 || userID == "" {
		return nil, ErrNotLogged
	}

	createdAtUnix, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse session created at: %w", err)
	}

	return &LoginSession{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}
