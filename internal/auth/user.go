package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")
	ErrWrongPassword = errors.New("wrong password")
	ErrNotLoggedIn   = errors.New("not logged in")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type usersRepo interface {
	Add(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}
