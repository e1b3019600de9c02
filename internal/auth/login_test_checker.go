package auth

import "context"

// LoginTestChecker is used in unit tests as a replacement for LoginChecker.
type LoginTestChecker struct {
	// token -> user id
	LoggedSessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]string{},
	}
}

func (c *LoginTestChecker) UserFromToken(_ context.Context, token string) (string, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
