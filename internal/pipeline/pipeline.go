// Package pipeline runs the linear fetch → compose → publish sequence.
// Control flow is strictly sequential; nothing is retried and nothing is
// persisted between invocations.
package pipeline

import (
	"context"
	"log"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/github"
	"github.com/perf2issue/perf2issue/internal/report"
)

// Fetcher reads one incident from the monitoring API.
type Fetcher interface {
	FetchIncident(ctx context.Context, appID string, incidentNumber int) (*appsignal.Incident, error)
}

// Publisher creates one issue on the tracking platform.
type Publisher interface {
	CreateIssue(ctx context.Context, repo, title, body string, labels []string) (*github.Issue, error)
}

// Notifier announces the created issue. Optional.
type Notifier interface {
	IssueCreated(inc *appsignal.Incident, title, issueURL string, issueNumber int) error
}

// Pipeline wires the collaborators for one run.
type Pipeline struct {
	Fetcher   Fetcher
	Publisher Publisher
	Notifier  Notifier // nil disables notifications
}

// Result is what a successful run reports back to the CLI.
type Result struct {
	IssueURL    string
	IssueNumber int
	TargetRepo  string
}

// Run executes one pipeline invocation. targetRepo is recorded in the report
// frontmatter (where the slow code lives); issueRepo is where the issue gets
// filed. The two may differ and are never conflated.
func (p *Pipeline) Run(ctx context.Context, appID string, incidentNumber int, targetRepo, issueRepo string) (*Result, error) {
	inc, err := p.Fetcher.FetchIncident(ctx, appID, incidentNumber)
	if err != nil {
		return nil, err
	}

	body := report.Compose(inc, appID, incidentNumber, targetRepo)
	title := github.BuildTitle(inc)
	labels := github.BuildLabels(inc)

	issue, err := p.Publisher.CreateIssue(ctx, issueRepo, title, body, labels)
	if err != nil {
		return nil, err
	}

	if p.Notifier != nil {
		// The issue already exists; a failed notification is only a warning.
		if err := p.Notifier.IssueCreated(inc, title, issue.HTMLURL, issue.Number); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	return &Result{
		IssueURL:    issue.HTMLURL,
		IssueNumber: issue.Number,
		TargetRepo:  targetRepo,
	}, nil
}
