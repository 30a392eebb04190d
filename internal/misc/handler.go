package misc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/tracker"
	"github.com/Ankush-patel1/Fitness/internal/middleware"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/metrics"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
	"github.com/Ankush-patel1/Fitness/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=misc_mocks_test.go -package=misc_test

type accountService interface {
	RegisterUser(ctx context.Context, username, email, name, password string) (*ledger.User, error)
	Authenticate(ctx context.Context, username, password string) (*ledger.User, error)
}

type sessionService interface {
	Login(ctx context.Context, userID string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type sessionCache interface {
	Forget(token string)
}

type accessTokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type LoginResponse struct {
	Token          string    `json:"token"`
	AccessToken    string    `json:"accessToken"`
	AccessTokenExp time.Time `json:"accessTokenExpiresAt"`
	UserID         string    `json:"userId"`
}

type Handler struct {
	versionInfo    string
	accounts       accountService
	sessions       sessionService
	sessionCache   sessionCache
	tokenIssuer    accessTokenIssuer
	metricsManager *metrics.Manager
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

func NewHandler(
	versionInfo string,
	accounts accountService,
	sessions sessionService,
	sessionCache sessionCache,
	tokenIssuer accessTokenIssuer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		versionInfo:    versionInfo,
		accounts:       accounts,
		sessions:       sessions,
		sessionCache:   sessionCache,
		tokenIssuer:    tokenIssuer,
		metricsManager: metricsManager,
		NowFunc:        time.Now,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRatePerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	accountSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	accountSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	accountSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")
	accountSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// password guessing and sign-up spam
	accountSubrouter.Use(middleware.RateLimit(rateLimiter, "account", loginRatePerMin, handler.metricsManager))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// readCredentials accepts both a JSON body and a form.
func readCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, err
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	return credentials{
		Username: r.Form.Get("username"),
		Email:    r.Form.Get("email"),
		Name:     r.Form.Get("name"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) countLogin(outcome string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(outcome).Inc()
	}
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	loginReq, err := readCredentials(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.accounts.Authenticate(ctx, loginReq.Username, loginReq.Password)
	if errors.Is(err, tracker.ErrInvalidCredentials) {
		log.Tracef("failed login attempt for user: %s", loginReq.Username)
		handler.countLogin("rejected")
		span.SetStatus(codes.Error, "wrong-credentials")
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("login, authenticate [%s]: %s", loginReq.Username, err)
		handler.countLogin("error")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	token, err := handler.sessions.Login(ctx, user.ID, handler.NowFunc())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		handler.countLogin("error")
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	accessToken, expiresAt, err := handler.tokenIssuer.Issue(user.ID)
	if err != nil {
		log.Errorf("login failed, issue access token: %s", err)
		handler.countLogin("error")
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(LoginResponse{
		Token:          token,
		AccessToken:    accessToken,
		AccessTokenExp: expiresAt,
		UserID:         user.ID,
	})
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success for [%s]", user.ID)
	handler.countLogin("success")
	span.SetStatus(codes.Ok, "logged-in")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	req, err := readCredentials(r)
	if err != nil {
		log.Errorf("register, read credentials: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	user, err := handler.accounts.RegisterUser(ctx, req.Username, req.Email, req.Name, req.Password)
	switch {
	case errors.Is(err, ledger.ErrUserExists):
		http.Error(w, "username taken", http.StatusConflict)
		return
	case errors.Is(err, ledger.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("register [%s]: %s", req.Username, err)
		span.RecordError(err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	userBytes, err := json.Marshal(user)
	if err != nil {
		log.Errorf("register, marshal user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s", user.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userBytes, http.StatusCreated)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(middleware.SessionTokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.sessions.Logout(ctx, authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	handler.sessionCache.Forget(authToken)

	log.Trace("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}
