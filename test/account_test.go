//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/misc"
	pkgtesting "github.com/Ankush-patel1/Fitness/pkg/testing"

	"github.com/brianvoe/gofakeit/v6"
)

type account struct {
	username string
	password string
	login    misc.LoginResponse
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBytes
}

func bearer(acc *account) map[string]string {
	return map[string]string{"Authorization": "Bearer " + acc.login.AccessToken}
}

func (s *IntegrationTestSuite) registerAndLogin(ctx context.Context) *account {
	acc := &account{
		username: gofakeit.Username() + gofakeit.DigitN(4),
		password: gofakeit.Password(true, true, true, false, false, 12),
	}

	resp, body := s.doRequest(ctx, http.MethodPost, "/a/register", map[string]string{
		"username": acc.username,
		"email":    gofakeit.Email(),
		"name":     gofakeit.Name(),
		"password": acc.password,
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.doRequest(ctx, http.MethodPost, "/a/login", map[string]string{
		"username": acc.username,
		"password": acc.password,
	}, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Require().NoError(json.Unmarshal(body, &acc.login))
	s.Require().NotEmpty(acc.login.Token)
	s.Require().NotEmpty(acc.login.AccessToken)

	return acc
}

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	ctx := context.Background()
	acc := s.registerAndLogin(ctx)

	// same username in another case is taken
	resp, _ := s.doRequest(ctx, http.MethodPost, "/a/register", map[string]string{
		"username": strings.ToUpper(acc.username),
		"email":    gofakeit.Email(),
		"password": "whatever-pass",
	}, nil)
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp, _ = s.doRequest(ctx, http.MethodPost, "/a/login", map[string]string{
		"username": acc.username,
		"password": "wrong-password",
	}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	// form encoded login works too
	form := url.Values{"username": {acc.username}, "password": {acc.password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/a/login", strings.NewReader(form.Encode()))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	formResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	formResp.Body.Close()
	s.Equal(http.StatusOK, formResp.StatusCode)

	sessionHeader := map[string]string{"X-FIT-TOKEN": acc.login.Token}
	resp, body := s.doRequest(ctx, http.MethodGet, "/profile", nil, sessionHeader)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile ledger.User
	s.Require().NoError(json.Unmarshal(body, &profile))
	s.Equal(acc.login.UserID, profile.ID)

	rdb := pkgtesting.NewRedisClient(s.T(), "localhost", s.redisPort, "")
	isMember, err := rdb.SIsMember(ctx, "fitness-sessions", acc.login.Token).Result()
	s.Require().NoError(err)
	s.True(isMember)

	resp, _ = s.doRequest(ctx, http.MethodGet, "/a/logout", nil, sessionHeader)
	s.Equal(http.StatusOK, resp.StatusCode)

	isMember, err = rdb.SIsMember(ctx, "fitness-sessions", acc.login.Token).Result()
	s.Require().NoError(err)
	s.False(isMember)

	resp, _ = s.doRequest(ctx, http.MethodGet, "/profile", nil, sessionHeader)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// the access token outlives the session until it expires
	resp, _ = s.doRequest(ctx, http.MethodGet, "/profile", nil, bearer(acc))
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestUnauthorized() {
	ctx := context.Background()
	for _, path := range []string{"/workouts", "/health-metrics", "/scheduled-workouts", "/dashboard/stats", "/profile"} {
		resp, _ := s.doRequest(ctx, http.MethodGet, path, nil, nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, _ := s.doRequest(ctx, http.MethodGet, "/workouts", nil, map[string]string{"X-FIT-TOKEN": "made-up"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.doRequest(ctx, http.MethodGet, "/workouts", nil, map[string]string{"Authorization": "Bearer made.up.token"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestVersionAndMetrics() {
	ctx := context.Background()
	resp, body := s.doRequest(ctx, http.MethodGet, "/version", nil, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "test-version-info")

	metricsResp, err := http.Get(fmt.Sprintf("http://%s:%d/metrics", serverHost, metricsPort))
	s.Require().NoError(err)
	defer metricsResp.Body.Close()
	metricsBody, err := io.ReadAll(metricsResp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, metricsResp.StatusCode)
	s.Contains(string(metricsBody), "fitness_main_")
}
