package github

import (
	"context"
	"net/url"
	"os/exec"
	"strings"

	"github.com/perf2issue/perf2issue/internal/errs"
	"github.com/perf2issue/perf2issue/internal/validate"
)

// ResolveRepo determines where to file the issue: the explicit override wins,
// otherwise the local git origin remote is inspected. This repository is
// independent of the target repository recorded in the report frontmatter.
func ResolveRepo(ctx context.Context, override string) (string, error) {
	if override != "" {
		if !validate.IsValidRepo(override) {
			return "", errs.New(errs.InvalidRepoFormat,
				"repository override %q is not in owner/repo format", override)
		}
		return override, nil
	}

	out, err := exec.CommandContext(ctx, "git", "config", "--get", "remote.origin.url").Output()
	if err != nil {
		return "", errs.New(errs.RepoNotDetected,
			"no repository override set and no git origin remote found")
	}

	repo, ok := ParseRemoteURL(strings.TrimSpace(string(out)))
	if !ok {
		return "", errs.New(errs.RepoNotDetected,
			"could not extract owner/repo from remote %q", strings.TrimSpace(string(out)))
	}
	return repo, nil
}

// ParseRemoteURL extracts owner/repo from a git remote URL. Both SSH-style
// (git@host:owner/repo.git) and HTTPS-style (https://host/owner/repo.git)
// forms are supported.
func ParseRemoteURL(remote string) (string, bool) {
	var path string

	switch {
	case strings.HasPrefix(remote, "git@"):
		parts := strings.SplitN(remote, ":", 2)
		if len(parts) != 2 {
			return "", false
		}
		path = parts[1]
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return "", false
		}
		path = strings.TrimPrefix(u.Path, "/")
	default:
		return "", false
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")
	if strings.Count(path, "/") != 1 {
		return "", false
	}
	if !validate.IsValidRepo(path) {
		return "", false
	}
	return path, true
}
