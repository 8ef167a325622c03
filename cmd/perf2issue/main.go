// perf2issue fetches one AppSignal performance incident and files it as a
// GitHub issue with a structured markdown report.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/config"
	"github.com/perf2issue/perf2issue/internal/errs"
	"github.com/perf2issue/perf2issue/internal/github"
	"github.com/perf2issue/perf2issue/internal/pipeline"
	"github.com/perf2issue/perf2issue/internal/slacknotify"
	"github.com/perf2issue/perf2issue/internal/validate"
)

const usageText = `Usage: perf2issue <app-id> <incident-number> <target-repo>

Arguments:
  app-id            AppSignal app ID (24 hexadecimal characters)
  incident-number   Performance incident number
  target-repo       Repository the incident belongs to (owner/repo), recorded
                    in the report frontmatter

Environment:
  APPSIGNAL_API_TOKEN         AppSignal personal API token (required)
  GITHUB_TOKEN                GitHub token with issue write access (required
                              unless the GitHub App variables are set)
  GITHUB_APP_ID               GitHub App ID
  GITHUB_APP_INSTALLATION_ID  GitHub App installation ID
  GITHUB_APP_PRIVATE_KEY      GitHub App private key (PEM content or file path)
  GITHUB_REPOSITORY           Where to file the issue (owner/repo); defaults
                              to the local git origin remote
  SLACK_BOT_TOKEN             Slack bot token for the optional notification
  SLACK_CHANNEL               Slack channel for the optional notification
  APPSIGNAL_GRAPHQL_URL       AppSignal GraphQL endpoint override
  GITHUB_API_URL              GitHub API base URL override
  PERF2ISSUE_DEBUG            Echo outbound requests and raw responses to stderr
`

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) != 3 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}
	appID, incidentArg, targetRepo := args[0], args[1], args[2]

	cfg := config.Load()

	// Validate everything before the first network call.
	incidentNumber, err := validate.Check(appID, incidentArg, targetRepo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errs.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		fmt.Fprint(os.Stderr, "\n"+usageText)
		os.Exit(1)
	}
	if err := validate.CheckCredentials(cfg); err != nil {
		fail(err)
	}

	ctx := context.Background()

	issueRepo, err := github.ResolveRepo(ctx, cfg.RepoOverride)
	if err != nil {
		fail(err)
	}

	publisher, err := github.NewClient(cfg)
	if err != nil {
		fail(err)
	}

	p := &pipeline.Pipeline{
		Fetcher:   appsignal.NewClient(cfg),
		Publisher: publisher,
	}
	if notifier := slacknotify.New(cfg); notifier != nil {
		p.Notifier = notifier
	}

	if cfg.Debug {
		log.Printf("[%s] fetching incident %d for app %s", cfg.RunID, incidentNumber, appID)
	}

	result, err := p.Run(ctx, appID, incidentNumber, targetRepo, issueRepo)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Issue created: %s\n", result.IssueURL)
	fmt.Printf("Issue number: %d\n", result.IssueNumber)
	fmt.Printf("Target repository: %s\n", result.TargetRepo)
}

// fail prints the error and its remediation hint, then exits non-zero.
// Nothing is retried and no partial report is ever written on failure.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if hint := errs.Hint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}
