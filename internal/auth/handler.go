package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// syncNotifier is implemented by the remote sync bridge: it gets notified when
// a user signs in (to load the remote snapshots) and out (to flush them).
type syncNotifier interface {
	OnSignIn(ctx context.Context, userID string)
	OnSignOut(ctx context.Context, userID string)
}

type Handler struct {
	authService *Service
	syncBridge  syncNotifier
}

func NewHandler(authService *Service, syncBridge syncNotifier) *Handler {
	return &Handler{
		authService: authService,
		syncBridge:  syncBridge,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimitMiddleware mux.MiddlewareFunc,
) {
	authSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	authSubrouter.HandleFunc("/signup", handler.handleSignup).Methods("POST", "OPTIONS").Name("signup")
	authSubrouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", handler.handleLogout).Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	authSubrouter.Use(rateLimitMiddleware)
}

func (handler *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signup")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("signup, read credentials: %s", err)
		http.Error(w, "signup failed", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "error, username or password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.authService.Signup(ctx, *creds, time.Now())
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "error, username taken", http.StatusConflict)
			return
		}
		log.Errorf("signup failed for [%s]: %s", creds.Username, err)
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user signed up: %s", user.Username)
	pkg.WriteResponse(w, pkg.ContentType.JSON, fmt.Sprintf(`{"id": "%s"}`, user.ID), http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "error, username or password empty", http.StatusBadRequest)
		return
	}

	token, userID, err := handler.authService.Login(ctx, *creds, time.Now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
			log.Tracef("failed login attempt for user: %s", creds.Username)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	// remote snapshots are authoritative at sign-in
	handler.syncBridge.OnSignIn(ctx, userID)

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s", "userId": "%s"}`, token, userID))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	authToken := r.Header.Get("X-FITLOG-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userID, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// flush pending snapshot writes before the session is gone
	handler.syncBridge.OnSignOut(ctx, userID)

	pkg.WriteTextResponseOK(w, "logged-out")
}

func credentialsFromRequest(r *http.Request) (*Credentials, error) {
	var creds Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return nil, fmt.Errorf("unmarshal json params: %w", err)
		}
		return &creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	creds = Credentials{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}
	return &creds, nil
}
