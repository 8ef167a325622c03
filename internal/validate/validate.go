// Package validate checks the pipeline's positional inputs and credentials
// before any network call is made.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/perf2issue/perf2issue/internal/config"
	"github.com/perf2issue/perf2issue/internal/errs"
)

var (
	appIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	repoPattern  = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("appsignal_app_id", func(fl validator.FieldLevel) bool {
		return IsValidAppID(fl.Field().String())
	})
	v.RegisterValidation("incident_number", func(fl validator.FieldLevel) bool {
		return IsValidIncidentNumber(fl.Field().String())
	})
	v.RegisterValidation("github_repo", func(fl validator.FieldLevel) bool {
		return IsValidRepo(fl.Field().String())
	})
	return v
}

// Inputs are the three positional CLI arguments.
type Inputs struct {
	AppID          string `validate:"required,appsignal_app_id"`
	IncidentNumber string `validate:"required,incident_number"`
	TargetRepo     string `validate:"required,github_repo"`
}

// IsValidAppID reports whether s is a 24-character hexadecimal app identifier.
func IsValidAppID(s string) bool {
	return appIDPattern.MatchString(s)
}

// IsValidIncidentNumber reports whether s is a positive integer in canonical
// form: digits only, no sign, no whitespace, no leading zeros.
func IsValidIncidentNumber(s string) bool {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return false
	}
	// Reject non-canonical spellings like "01" or "+1".
	return strconv.Itoa(n) == s
}

// IsValidRepo reports whether s is an owner/repo pair over [a-zA-Z0-9_.-].
func IsValidRepo(s string) bool {
	return repoPattern.MatchString(s)
}

// Check validates the three positional inputs and returns the incident number
// parsed as an integer. The first failing field wins; nothing is normalized.
func Check(appID, incidentNumber, targetRepo string) (int, error) {
	in := Inputs{AppID: appID, IncidentNumber: incidentNumber, TargetRepo: targetRepo}
	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return 0, errs.Wrap(errs.InvalidAppID, err, "input validation failed")
		}
		return 0, fieldError(verrs[0], in)
	}

	n, _ := strconv.Atoi(incidentNumber)
	return n, nil
}

// fieldError maps a validator field error onto the pipeline error taxonomy.
func fieldError(fe validator.FieldError, in Inputs) error {
	switch fe.StructField() {
	case "AppID":
		return errs.New(errs.InvalidAppID,
			"invalid app ID %q: must be exactly 24 hexadecimal characters", in.AppID)
	case "IncidentNumber":
		return errs.New(errs.InvalidIncidentNumber,
			"invalid incident number %q: must be a positive integer", in.IncidentNumber)
	default:
		return errs.New(errs.InvalidRepoFormat,
			"invalid repository %q: must be in owner/repo format", in.TargetRepo)
	}
}

// CheckCredentials verifies the required secrets are present in the loaded
// configuration. The GitHub side accepts either a plain token or the complete
// GitHub App credential trio.
func CheckCredentials(cfg *config.Config) error {
	if cfg.AppSignalToken == "" {
		return errs.New(errs.MissingCredential, "APPSIGNAL_API_TOKEN is not set")
	}
	if cfg.GitHubToken == "" && !cfg.HasGitHubAppAuth() {
		missing := githubMissing(cfg)
		return errs.New(errs.MissingCredential,
			"GITHUB_TOKEN is not set and GitHub App credentials are incomplete (missing %s)",
			strings.Join(missing, ", "))
	}
	return nil
}

func githubMissing(cfg *config.Config) []string {
	var missing []string
	if cfg.GitHubAppID == "" {
		missing = append(missing, "GITHUB_APP_ID")
	}
	if cfg.GitHubAppInstallationID == "" {
		missing = append(missing, "GITHUB_APP_INSTALLATION_ID")
	}
	if cfg.GitHubAppPrivateKey == "" {
		missing = append(missing, "GITHUB_APP_PRIVATE_KEY")
	}
	if len(missing) == 0 {
		missing = append(missing, "GITHUB_TOKEN")
	}
	return missing
}
