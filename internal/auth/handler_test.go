package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncNotifier struct {
	signIns  []string
	signOuts []string
}

func (f *fakeSyncNotifier) OnSignIn(_ context.Context, userID string) {
	f.signIns = append(f.signIns, userID)
}

func (f *fakeSyncNotifier) OnSignOut(_ context.Context, userID string) {
	f.signOuts = append(f.signOuts, userID)
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}

func TestHandler_SignupLoginLogout(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(newFakeUsersRepo(), time.Hour, rdb)
	service.NewIDFunc = func() string {
		return "user-1"
	}
	testToken := "test_token"
	service.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	notifier := &fakeSyncNotifier{}
	router := mux.NewRouter()
	NewHandler(service, notifier).SetupRoutes(router, noopMiddleware)

	creds := `{"username": "serj", "password": "top-secret"}`

	req := httptest.NewRequest("POST", "/a/signup", strings.NewReader(creds))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, `{"id": "user-1"}`, rr.Body.String())

	sessionKey := sessionKeyPrefix + testToken
	// login time is taken inside the handler, match the value loosely
	mock.Regexp().ExpectSet(sessionKey, `user-1\|\|\d+`, 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	req = httptest.NewRequest("POST", "/a/login", strings.NewReader(creds))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, fmt.Sprintf(`{"token": "%s", "userId": "user-1"}`, testToken), rr.Body.String())
	// remote snapshots loaded on sign-in
	require.Equal(t, []string{"user-1"}, notifier.signIns)

	req = httptest.NewRequest("POST", "/a/login", strings.NewReader(`{"username": "serj", "password": "nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, notifier.signIns, 1)

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("user-1||%d", time.Now().Unix()))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	req = httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Set("X-FITLOG-TOKEN", testToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())
	// pending snapshot writes flushed on sign-out
	require.Equal(t, []string{"user-1"}, notifier.signOuts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Signup_BadRequest(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	router := mux.NewRouter()
	NewHandler(NewService(newFakeUsersRepo(), time.Hour, rdb), &fakeSyncNotifier{}).
		SetupRoutes(router, noopMiddleware)

	req := httptest.NewRequest("POST", "/a/signup", strings.NewReader(`{"username": "serj"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Logout_NoToken(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	notifier := &fakeSyncNotifier{}
	router := mux.NewRouter()
	NewHandler(NewService(newFakeUsersRepo(), time.Hour, rdb), notifier).
		SetupRoutes(router, noopMiddleware)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/a/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, notifier.signOuts)
}
