// Package slacknotify posts a one-line summary to Slack after an issue has
// been created. It is optional: without a configured token and channel the
// pipeline runs without it.
package slacknotify

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/config"
)

// Notifier posts issue-created notifications to one Slack channel.
type Notifier struct {
	client  *slack.Client
	channel string
}

// New creates a Notifier from the loaded configuration, or nil when the
// token/channel pair is absent.
func New(cfg *config.Config) *Notifier {
	if cfg.SlackBotToken == "" || cfg.SlackChannel == "" {
		return nil
	}
	return &Notifier{
		client:  slack.New(cfg.SlackBotToken),
		channel: cfg.SlackChannel,
	}
}

// IssueCreated posts the created issue's title and URL. The issue already
// exists at this point, so a notification failure never fails the run; the
// caller logs it and moves on.
func (n *Notifier) IssueCreated(inc *appsignal.Incident, title, issueURL string, issueNumber int) error {
	message := fmt.Sprintf("⚡ Filed performance issue <%s|#%d>: %s (severity: %s)",
		issueURL, issueNumber, title, inc.Severity)

	_, _, err := n.client.PostMessage(
		n.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post Slack notification: %w", err)
	}
	return nil
}
