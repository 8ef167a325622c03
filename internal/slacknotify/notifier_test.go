package slacknotify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/slack-go/slack"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/config"
)

func TestNewDisabledWithoutConfig(t *testing.T) {
	tests := []struct {
		name           string
		token, channel string
	}{
		{"nothing set", "", ""},
		{"token only", "xoxb-token", ""},
		{"channel only", "", "#perf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(&config.Config{SlackBotToken: tt.token, SlackChannel: tt.channel})
			if n != nil {
				t.Error("New() should return nil when the pair is incomplete")
			}
		})
	}

	if New(&config.Config{SlackBotToken: "xoxb-token", SlackChannel: "#perf"}) == nil {
		t.Error("New() should return a notifier when both values are set")
	}
}

func TestIssueCreated(t *testing.T) {
	var gotChannel, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "chat.postMessage") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		gotChannel = form.Get("channel")
		gotText = form.Get("text")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "channel": "C123", "ts": "1700000000.000100"}`))
	}))
	defer server.Close()

	n := &Notifier{
		client:  slack.New("xoxb-token", slack.OptionAPIURL(server.URL+"/")),
		channel: "#perf",
	}

	inc := &appsignal.Incident{Severity: "critical"}
	err := n.IssueCreated(inc,
		"[Performance] UsersController#show - Slow response time (1.25 s)",
		"https://github.com/acme/storefront/issues/17", 17)
	if err != nil {
		t.Fatalf("IssueCreated() error = %v", err)
	}

	if gotChannel != "#perf" {
		t.Errorf("channel = %q", gotChannel)
	}
	for _, want := range []string{"issues/17", "UsersController#show", "critical"} {
		if !strings.Contains(gotText, want) {
			t.Errorf("message %q missing %q", gotText, want)
		}
	}
}

func TestIssueCreatedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer server.Close()

	n := &Notifier{
		client:  slack.New("xoxb-token", slack.OptionAPIURL(server.URL+"/")),
		channel: "#gone",
	}

	err := n.IssueCreated(&appsignal.Incident{}, "title", "url", 1)
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("IssueCreated() error = %v; want channel_not_found", err)
	}
}
