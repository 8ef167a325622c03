// Package appsignal fetches one performance incident from the AppSignal
// GraphQL API and normalizes it for the report composer.
package appsignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/perf2issue/perf2issue/internal/config"
	"github.com/perf2issue/perf2issue/internal/errs"
)

// incidentQuery asks for the incident by number within the app, including up
// to 10 samples with their duration/allocation breakdowns and N+1 flag.
const incidentQuery = `query IncidentQuery($appId: String!, $incidentNumber: Int!) {
  app(id: $appId) {
    id
    incident(incidentNumber: $incidentNumber) {
      __typename
      ... on PerformanceIncident {
        id
        number
        actionNames
        description
        severity
        state
        totalDuration
        samples(limit: 10) {
          id
          time
          action
          duration
          queueDuration
          hasNPlusOne
          groupDurations {
            group
            duration
          }
          groupAllocations {
            group
            allocations
          }
          overview {
            key
            value
          }
          params
          sessionData
        }
      }
      ... on ExceptionIncident {
        id
        number
      }
    }
  }
}`

// Client is the AppSignal GraphQL client. Endpoint and token are injected so
// tests can point it at a local fake server.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	debug      bool
	runID      string
}

// NewClient creates an AppSignal client from the loaded configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint: cfg.AppSignalURL,
		token:    cfg.AppSignalToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		debug: cfg.Debug,
		runID: cfg.RunID,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		App *struct {
			ID       string           `json:"id"`
			Incident *incidentPayload `json:"incident"`
		} `json:"app"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type incidentPayload struct {
	Typename      string          `json:"__typename"`
	ID            string          `json:"id"`
	Number        int             `json:"number"`
	ActionNames   []string        `json:"actionNames"`
	Description   *string         `json:"description"`
	Severity      string          `json:"severity"`
	State         string          `json:"state"`
	TotalDuration float64         `json:"totalDuration"`
	Samples       []samplePayload `json:"samples"`
}

type samplePayload struct {
	ID            string   `json:"id"`
	Time          *string  `json:"time"`
	Action        string   `json:"action"`
	Duration      *float64 `json:"duration"`
	QueueDuration *float64 `json:"queueDuration"`
	HasNPlusOne   bool     `json:"hasNPlusOne"`
	GroupDurations []struct {
		Group    string  `json:"group"`
		Duration float64 `json:"duration"`
	} `json:"groupDurations"`
	GroupAllocations []struct {
		Group       string  `json:"group"`
		Allocations float64 `json:"allocations"`
	} `json:"groupAllocations"`
	Overview []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"overview"`
	Params      map[string]interface{} `json:"params"`
	SessionData map[string]interface{} `json:"sessionData"`
}

// FetchIncident performs the single query-style request of the pipeline. It
// is not retried internally; retry policy belongs to the CI orchestrator.
func (c *Client) FetchIncident(ctx context.Context, appID string, incidentNumber int) (*Incident, error) {
	reqBody, err := json.Marshal(graphQLRequest{
		Query: incidentQuery,
		Variables: map[string]interface{}{
			"appId":          appID,
			"incidentNumber": incidentNumber,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	endpoint := c.endpoint + "?token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.debug {
		log.Printf("[%s] appsignal: POST %s body=%s", c.runID, c.endpoint, string(reqBody))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkError, err, "monitoring API request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkError, err, "failed to read monitoring API response")
	}

	if c.debug {
		log.Printf("[%s] appsignal: status=%d body=%s", c.runID, resp.StatusCode, string(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.APIError,
			"monitoring API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, errs.Wrap(errs.MalformedResponse, err, "monitoring API response is not valid JSON")
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, errs.New(errs.QueryError, "query failed: %s", strings.Join(msgs, "; "))
	}

	if gqlResp.Data == nil || gqlResp.Data.App == nil {
		return nil, errs.New(errs.IncidentNotFound, "no app found with ID %s", appID)
	}
	if gqlResp.Data.App.Incident == nil {
		return nil, errs.New(errs.IncidentNotFound,
			"no incident found with number %d in app %s", incidentNumber, appID)
	}

	payload := gqlResp.Data.App.Incident
	if payload.Typename != KindPerformance {
		return nil, errs.New(errs.WrongIncidentType,
			"incident %d is a %s, only performance incidents are supported",
			incidentNumber, payload.Typename)
	}

	return normalizeIncident(payload), nil
}

func normalizeIncident(p *incidentPayload) *Incident {
	inc := &Incident{
		ID:            p.ID,
		Number:        p.Number,
		ActionNames:   p.ActionNames,
		Severity:      p.Severity,
		State:         p.State,
		TotalDuration: p.TotalDuration,
	}
	if p.Description != nil {
		inc.Description = *p.Description
	}
	for _, sp := range p.Samples {
		inc.Samples = append(inc.Samples, normalizeSample(sp))
	}
	return inc
}

func normalizeSample(sp samplePayload) Sample {
	s := Sample{
		ID:            sp.ID,
		Action:        sp.Action,
		Duration:      sp.Duration,
		QueueDuration: sp.QueueDuration,
		HasNPlusOne:   sp.HasNPlusOne,
		Params:        sp.Params,
		SessionData:   sp.SessionData,
	}
	if sp.Time != nil {
		if t, err := time.Parse(time.RFC3339, *sp.Time); err == nil {
			s.Time = &t
		}
	}
	for _, g := range sp.GroupDurations {
		s.GroupDurations = append(s.GroupDurations, GroupValue{Group: g.Group, Value: g.Duration})
	}
	for _, g := range sp.GroupAllocations {
		s.GroupAllocations = append(s.GroupAllocations, GroupValue{Group: g.Group, Value: g.Allocations})
	}
	for _, kv := range sp.Overview {
		s.Overview = append(s.Overview, KeyValue{Key: kv.Key, Value: kv.Value})
	}
	return s
}
