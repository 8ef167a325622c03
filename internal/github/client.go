// Package github files the composed report as an issue on the tracking
// platform and derives the issue title and label set from the incident.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/perf2issue/perf2issue/internal/config"
	"github.com/perf2issue/perf2issue/internal/errs"
)

// TokenSource yields a bearer token for the issue platform. Plain tokens are
// static; GitHub App credentials mint short-lived installation tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a plain personal-access or CI token.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// Client is the issue-tracking platform client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	debug      bool
	runID      string
}

// NewClient creates a GitHub client from the loaded configuration. A plain
// token is preferred; the GitHub App credential trio is the fallback.
func NewClient(cfg *config.Config) (*Client, error) {
	var tokens TokenSource
	if cfg.GitHubToken != "" {
		tokens = StaticToken(cfg.GitHubToken)
	} else {
		appAuth, err := NewAppAuth(cfg)
		if err != nil {
			return nil, err
		}
		tokens = appAuth
	}

	return &Client{
		baseURL: cfg.GitHubAPIURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		debug: cfg.Debug,
		runID: cfg.RunID,
	}, nil
}

// Issue is the created issue as reported by the platform.
type Issue struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

type createIssueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// CreateIssue submits title, body and labels to the issue-creation endpoint
// for the given owner/repo. The call is all-or-nothing: there is no retry and
// no partial write.
func (c *Client) CreateIssue(ctx context.Context, repo, title, body string, labels []string) (*Issue, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.IssueCreationError, err, "failed to resolve GitHub credentials")
	}

	reqBody, err := json.Marshal(createIssueRequest{Title: title, Body: body, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal issue request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/issues", c.baseURL, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	if c.debug {
		log.Printf("[%s] github: POST %s title=%q labels=%v", c.runID, endpoint, title, labels)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkError, err, "issue platform request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkError, err, "failed to read issue platform response")
	}

	if c.debug {
		log.Printf("[%s] github: status=%d body=%s", c.runID, resp.StatusCode, string(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.IssueCreationError,
			"issue creation failed with status %d: %s", resp.StatusCode, platformMessage(respBody))
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, errs.Wrap(errs.IssueCreationError, err, "unexpected issue creation response")
	}
	return &issue, nil
}

// platformMessage extracts the platform's error message, falling back to the
// raw body when it is not the usual {"message": ...} shape.
func platformMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
