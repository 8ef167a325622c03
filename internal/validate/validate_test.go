package validate

import (
	"strconv"
	"strings"
	"testing"

	"github.com/perf2issue/perf2issue/internal/config"
	"github.com/perf2issue/perf2issue/internal/errs"
)

func TestIsValidAppID(t *testing.T) {
	tests := []struct {
		name     string
		appID    string
		expected bool
	}{
		{"lowercase hex", "5f3a9b2c1d4e6f7a8b9c0d1e", true},
		{"uppercase hex", "5F3A9B2C1D4E6F7A8B9C0D1E", true},
		{"mixed case", "5f3A9b2C1d4E6f7A8b9C0d1E", true},
		{"all digits", "123456789012345678901234", true},
		{"too short", "5f3a9b2c1d4e6f7a8b9c0d1", false},
		{"too long", "5f3a9b2c1d4e6f7a8b9c0d1e5", false},
		{"non-hex character", "5f3a9b2c1d4e6f7a8b9c0d1g", false},
		{"empty", "", false},
		{"whitespace", "5f3a9b2c1d4e6f7a8b9c0d1 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAppID(tt.appID); got != tt.expected {
				t.Errorf("IsValidAppID(%q) = %v; want %v", tt.appID, got, tt.expected)
			}
		})
	}
}

func TestIsValidIncidentNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{"one", "1", true},
		{"typical", "42", true},
		{"large", "987654321", true},
		{"zero", "0", false},
		{"negative", "-1", false},
		{"leading zero", "01", false},
		{"plus sign", "+1", false},
		{"decimal", "1.5", false},
		{"empty", "", false},
		{"leading space", " 1", false},
		{"trailing space", "1 ", false},
		{"non-numeric", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidIncidentNumber(tt.number); got != tt.expected {
				t.Errorf("IsValidIncidentNumber(%q) = %v; want %v", tt.number, got, tt.expected)
			}
		})
	}

	// Round-trip property: every canonical positive integer is accepted.
	for _, n := range []int{1, 7, 10, 99, 1000, 123456} {
		if !IsValidIncidentNumber(strconv.Itoa(n)) {
			t.Errorf("IsValidIncidentNumber(%d) = false; want true", n)
		}
	}
}

func TestIsValidRepo(t *testing.T) {
	tests := []struct {
		name     string
		repo     string
		expected bool
	}{
		{"simple", "acme/storefront", true},
		{"dots and dashes", "my-org/my.repo_v2", true},
		{"missing slash", "acmestorefront", false},
		{"two slashes", "acme/store/front", false},
		{"empty owner", "/storefront", false},
		{"empty name", "acme/", false},
		{"space", "acme/store front", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRepo(tt.repo); got != tt.expected {
				t.Errorf("IsValidRepo(%q) = %v; want %v", tt.repo, got, tt.expected)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		appID        string
		number       string
		repo         string
		expectedKind errs.Kind
		expectedN    int
	}{
		{"valid", "5f3a9b2c1d4e6f7a8b9c0d1e", "42", "acme/storefront", "", 42},
		{"bad app id", "nope", "42", "acme/storefront", errs.InvalidAppID, 0},
		{"bad number", "5f3a9b2c1d4e6f7a8b9c0d1e", "01", "acme/storefront", errs.InvalidIncidentNumber, 0},
		{"bad repo", "5f3a9b2c1d4e6f7a8b9c0d1e", "42", "not-a-repo", errs.InvalidRepoFormat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Check(tt.appID, tt.number, tt.repo)
			if tt.expectedKind == "" {
				if err != nil {
					t.Fatalf("Check() error = %v; want nil", err)
				}
				if n != tt.expectedN {
					t.Errorf("Check() number = %d; want %d", n, tt.expectedN)
				}
				return
			}
			if err == nil {
				t.Fatal("Check() error = nil; want classified error")
			}
			if errs.KindOf(err) != tt.expectedKind {
				t.Errorf("Check() kind = %q; want %q", errs.KindOf(err), tt.expectedKind)
			}
		})
	}
}

func TestCheckCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name:    "missing appsignal token",
			cfg:     config.Config{GitHubToken: "tok"},
			wantErr: "APPSIGNAL_API_TOKEN",
		},
		{
			name:    "missing github credentials",
			cfg:     config.Config{AppSignalToken: "tok"},
			wantErr: "GITHUB_TOKEN",
		},
		{
			name: "partial app credentials name the gap",
			cfg: config.Config{
				AppSignalToken: "tok",
				GitHubAppID:    "1234",
			},
			wantErr: "GITHUB_APP_INSTALLATION_ID",
		},
		{
			name: "plain token ok",
			cfg:  config.Config{AppSignalToken: "tok", GitHubToken: "gh"},
		},
		{
			name: "app auth ok",
			cfg: config.Config{
				AppSignalToken:          "tok",
				GitHubAppID:             "1234",
				GitHubAppInstallationID: "567",
				GitHubAppPrivateKey:     "pem",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCredentials(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckCredentials() error = %v; want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("CheckCredentials() error = nil; want MissingCredential")
			}
			if errs.KindOf(err) != errs.MissingCredential {
				t.Errorf("kind = %q; want missing_credential", errs.KindOf(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not name %q", err.Error(), tt.wantErr)
			}
		})
	}
}
