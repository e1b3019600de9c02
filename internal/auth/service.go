package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitlog/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitlog-session||"
	tokensSetKey     = "fitlog-sessions"
)

// Service manages user accounts and login sessions.
// A session is stored in redis as: token -> "<userID>||<createdAtUnix>".
type Service struct {
	users       usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	// ability to inject id generator (for unit testing)
	NewIDFunc func() string
}

func NewService(
	users usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		NewIDFunc:      uuid.NewString,
	}
}

func (s *Service) Signup(ctx context.Context, creds Credentials, createdAt time.Time) (*User, error) {
	user := User{
		ID:        s.NewIDFunc(),
		Username:  creds.Username,
		CreatedAt: createdAt,
	}

	passwordHash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = passwordHash

	if err := s.users.Add(ctx, user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Login checks the credentials and creates a new session, returning its token
// and the id of the logged in user.
func (s *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, string, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		return "", "", err
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", "", ErrWrongPassword
	}

	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", "", err
	}

	sessionKey := sessionKeyPrefix + token
	sessionVal := fmt.Sprintf("%s||%d", user.ID, createdAt.Unix())
	if err := s.redisClient.Set(ctx, sessionKey, sessionVal, 0).Err(); err != nil {
		return "", "", err
	}

	// add token to list of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", "", err
	}

	return token, user.ID, nil
}

// Logout removes the session and returns the id of the user that was logged in.
func (s *Service) Logout(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := s.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return "", err
	}

	userID, _, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", err
	}

	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return "", err
	}

	// remove token from the list of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return userID, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *Service) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := s.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		if time.Since(createdAt) > s.ttl {
			log.Warnf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}
}

func parseSessionValue(val string) (string, time.Time, error) {
	parts := strings.Split(val, "||")
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("invalid session value [%s]", val)
	}
	createdAtUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid session timestamp: %w", err)
	}
	return parts[0], time.Unix(createdAtUnix, 0), nil
}
