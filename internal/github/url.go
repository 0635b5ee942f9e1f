// Package github retrieves OpenAPI documents from GitHub repositories.
// It understands the link shapes users copy out of the GitHub UI, talks to
// the REST Contents API, and falls back to the Git Data API for commit SHAs.
package github

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pkordes/specdeck/internal/domain"
)

const (
	hostGitHub = "github.com"
	hostRaw    = "raw.githubusercontent.com"
)

// allowedExtensions are the file types accepted as OpenAPI documents.
var allowedExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ParseURL normalizes a GitHub link into a domain.Source.
//
// Accepted shapes:
//
//	https://github.com/{owner}/{repo}/blob/{ref}/{path}
//	https://github.com/{owner}/{repo}/raw/{ref}/{path}
//	https://raw.githubusercontent.com/{owner}/{repo}/{ref}/{path}
//	https://raw.githubusercontent.com/{owner}/{repo}/refs/heads/{branch}/{path}
//
// The scheme may be omitted, "www." is ignored, and so are query and fragment.
// Every rejection wraps domain.ErrValidation.
func ParseURL(raw string) (domain.Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Source{}, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return domain.Source{}, fmt.Errorf("%w: malformed url: %v", domain.ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.Source{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrValidation, u.Scheme)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segs, err := splitSegments(u.EscapedPath())
	if err != nil {
		return domain.Source{}, err
	}

	var owner, repo, ref string
	var rest []string
	switch host {
	case hostGitHub:
		if len(segs) < 3 {
			return domain.Source{}, fmt.Errorf("%w: link must point at a file, e.g. github.com/owner/repo/blob/main/openapi.yaml", domain.ErrValidation)
		}
		if segs[2] != "blob" && segs[2] != "raw" {
			return domain.Source{}, fmt.Errorf("%w: unsupported github link kind %q, expected blob or raw", domain.ErrValidation, segs[2])
		}
		owner, repo = segs[0], segs[1]
		ref, rest = splitRef(segs[3:])
	case hostRaw:
		if len(segs) < 2 {
			return domain.Source{}, fmt.Errorf("%w: raw link is missing owner or repository", domain.ErrValidation)
		}
		owner, repo = segs[0], segs[1]
		ref, rest = splitRef(segs[2:])
	default:
		return domain.Source{}, fmt.Errorf("%w: %q is not a GitHub host", domain.ErrValidation, u.Hostname())
	}

	if ref == "" {
		return domain.Source{}, fmt.Errorf("%w: link is missing a branch, tag or commit", domain.ErrValidation)
	}
	if len(rest) == 0 {
		return domain.Source{}, fmt.Errorf("%w: link is missing a file path", domain.ErrValidation)
	}

	filePath := strings.Join(rest, "/")
	if ext := strings.ToLower(path.Ext(filePath)); !allowedExtensions[ext] {
		return domain.Source{}, fmt.Errorf("%w: %s is not a .yaml, .yml or .json file", domain.ErrValidation, path.Base(filePath))
	}

	return domain.NewSource(owner, repo, ref, filePath), nil
}

// splitSegments splits an escaped URL path into its non-empty, decoded
// segments. Dot segments and segments that decode to a slash are rejected so
// that one file has exactly one key and API paths stay inside the repository.
func splitSegments(escaped string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(escaped, "/") {
		if s == "" {
			continue
		}
		seg, err := url.PathUnescape(s)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed url: %v", domain.ErrValidation, err)
		}
		switch {
		case seg == "." || seg == "..":
			return nil, fmt.Errorf("%w: link must not contain %q path segments", domain.ErrValidation, seg)
		case strings.ContainsAny(seg, "/\\"):
			return nil, fmt.Errorf("%w: path segment %q contains a slash", domain.ErrValidation, seg)
		}
		out = append(out, seg)
	}
	return out, nil
}

// splitRef separates the ref from the file path.
// A "refs/heads/x" or "refs/tags/x" prefix collapses to x; otherwise the first
// segment is the ref, so branch names containing "/" are not supported.
func splitRef(segs []string) (string, []string) {
	if len(segs) >= 3 && segs[0] == "refs" && (segs[1] == "heads" || segs[1] == "tags") {
		return segs[2], segs[3:]
	}
	if len(segs) == 0 {
		return "", nil
	}
	return segs[0], segs[1:]
}
