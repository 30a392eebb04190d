package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/stats"
	"github.com/Ankush-patel1/Fitness/internal/fitness/tracker"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const sessionTokenHeader = "X-FIT-TOKEN"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Client talks to the fitness HTTP API on behalf of one user.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	accessToken  string
	sessionToken string
}

type Option func(*Client)

// WithAccessToken authenticates with a bearer access token.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithSessionToken authenticates with a session token from /a/login.
func WithSessionToken(token string) Option {
	return func(c *Client) {
		c.sessionToken = token
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q needs a scheme and a host", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for tokens and keeps them for the following calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/a/login", strings.NewReader(string(body)), &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.sessionToken = res.Token
	c.accessToken = res.AccessToken
	return &res, nil
}

type LoginResult struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

func (c *Client) DashboardStats(ctx context.Context) (*stats.Dashboard, error) {
	var dashboard stats.Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &dashboard); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &dashboard, nil
}

func (c *Client) ListWorkouts(ctx context.Context) ([]ledger.Workout, error) {
	var resp tracker.WorkoutsListResponse
	if err := c.do(ctx, http.MethodGet, "/workouts", nil, &resp); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return resp.Workouts, nil
}

// LatestHealthMetrics returns ErrNotFound when nothing was logged yet.
func (c *Client) LatestHealthMetrics(ctx context.Context) (*ledger.HealthMetrics, error) {
	var metrics ledger.HealthMetrics
	if err := c.do(ctx, http.MethodGet, "/health-metrics/latest", nil, &metrics); err != nil {
		return nil, fmt.Errorf("latest health metrics: %w", err)
	}
	return &metrics, nil
}

func (c *Client) ListScheduledWorkouts(ctx context.Context) ([]ledger.ScheduledWorkout, error) {
	var resp tracker.ScheduledWorkoutsListResponse
	if err := c.do(ctx, http.MethodGet, "/scheduled-workouts", nil, &resp); err != nil {
		return nil, fmt.Errorf("list scheduled workouts: %w", err)
	}
	return resp.ScheduledWorkouts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	} else if c.sessionToken != "" {
		req.Header.Set(sessionTokenHeader, c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
