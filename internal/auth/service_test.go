package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

type fakeUsersRepo struct {
	users map[string]User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]User{}}
}

func (f *fakeUsersRepo) Add(_ context.Context, user User) error {
	if _, ok := f.users[user.Username]; ok {
		return ErrUsernameTaken
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func TestService_SignupAndLogin(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(newFakeUsersRepo(), time.Hour, rdb)
	require.NotNil(t, service)
	service.NewIDFunc = func() string {
		return "user-1"
	}
	testToken := "test_token"
	service.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	creds := Credentials{
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}

	now := time.Now()
	user, err := service.Signup(context.Background(), creds, now)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, creds.Username, user.Username)
	assert.NotEqual(t, creds.Password, user.PasswordHash)

	// same username again
	_, err = service.Signup(context.Background(), creds, now)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	sessionKey := sessionKeyPrefix + testToken
	sessionVal := fmt.Sprintf("%s||%d", user.ID, now.Unix())
	mock.ExpectSet(sessionKey, sessionVal, 0).SetVal(sessionVal)
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, userID, err := service.Login(context.Background(), creds, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	assert.Equal(t, "user-1", userID)

	// test failed login
	_, _, err = service.Login(context.Background(), Credentials{
		Username: creds.Username,
		Password: "invalid_pass",
	}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, _, err = service.Login(context.Background(), Credentials{
		Username: "unknown-user",
		Password: creds.Password,
	}, now)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(newFakeUsersRepo(), time.Hour, rdb)

	testToken := "test_token"
	sessionKey := sessionKeyPrefix + testToken
	now := time.Now()

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("user-1||%d", now.Unix()))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	userID, err := service.Logout(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(newFakeUsersRepo(), ttl, rdb)
	require.NotNil(t, service)

	t1, t2 := "token1", "token2"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(fmt.Sprintf("user-1||%d", then.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(fmt.Sprintf("user-2||%d", now.Unix()))
	// expect deleted only t1, old life
	mock.ExpectDel(sessionKeyPrefix + t1).SetVal(1)
	mock.ExpectSRem(tokensSetKey, t1).SetVal(1)

	service.ScanAndClean(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}
