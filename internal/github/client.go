package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/metrics"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single GitHub call.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBytes caps how much of a response body is read.
	DefaultMaxBytes = 10 << 20

	apiVersion = "2022-11-28"
	mediaRaw   = "application/vnd.github.raw+json"
	mediaJSON  = "application/vnd.github+json"
)

// Client fetches file content from GitHub.
type Client struct {
	baseURL  string
	http     *http.Client
	auth     Authenticator
	maxBytes int64

	timeout    time.Duration
	timeoutSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. GitHub
// Enterprise ("https://ghe.example.com/api/v3") or a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the underlying *http.Client. hc itself is never
// modified; with WithTimeout a copy carrying that timeout is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithAuthenticator replaces the default BearerAuth.
func WithAuthenticator(a Authenticator) Option {
	return func(c *Client) { c.auth = a }
}

// WithMaxBytes caps the size of a fetched document.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// NewClient constructs a Client for the public GitHub API unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		auth:     BearerAuth{},
		maxBytes: DefaultMaxBytes,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	switch {
	case c.http == nil:
		c.http = &http.Client{Timeout: c.timeout}
	case c.timeoutSet:
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Fetch returns the raw bytes of the file described by src.
//
// It asks the Contents API first. A 404 on a ref that is a full commit SHA is
// retried through the Git Data API (commit -> tree -> blob), because the
// Contents API does not resolve commits that are unreachable from a branch.
// token may be empty for public repositories.
func (c *Client) Fetch(ctx context.Context, src domain.Source, token string) ([]byte, error) {
	body, err := c.fetchContents(ctx, src, token)
	if err == nil {
		return body, nil
	}
	if errors.Is(err, domain.ErrRemoteNotFound) && src.IsCommitSHA() {
		return c.fetchByCommit(ctx, src, token)
	}
	return nil, err
}

// fetchContents issues GET /repos/{owner}/{repo}/contents/{path}?ref={ref}.
func (c *Client) fetchContents(ctx context.Context, src domain.Source, token string) ([]byte, error) {
	endpoint := c.repoURL(src, "contents", escapePath(src.Path)) + "?ref=" + url.QueryEscape(src.Ref)
	return c.get(ctx, "contents", endpoint, mediaRaw, token, src)
}

type commitResponse struct {
	SHA  string `json:"sha"`
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

type treeResponse struct {
	SHA  string `json:"sha"`
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		SHA  string `json:"sha"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

type blobResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// fetchByCommit resolves src.Path inside the tree of commit src.Ref and
// returns the blob content.
func (c *Client) fetchByCommit(ctx context.Context, src domain.Source, token string) ([]byte, error) {
	var commit commitResponse
	if err := c.getJSON(ctx, "git_commit", c.repoURL(src, "git", "commits", src.Ref), token, src, &commit); err != nil {
		return nil, err
	}

	treeURL := c.repoURL(src, "git", "trees", commit.Tree.SHA) + "?recursive=1"
	var tree treeResponse
	if err := c.getJSON(ctx, "git_tree", treeURL, token, src, &tree); err != nil {
		return nil, err
	}

	var blobSHA string
	for _, entry := range tree.Tree {
		if entry.Path == src.Path && entry.Type == "blob" {
			blobSHA = entry.SHA
			break
		}
	}
	if blobSHA == "" {
		msg := fmt.Sprintf("%s does not exist at commit %s", src.Path, shortSHA(src.Ref))
		if tree.Truncated {
			msg += " (the repository tree was too large to search completely)"
		}
		return nil, &APIError{StatusCode: http.StatusNotFound, Endpoint: "git_tree", Message: msg}
	}

	var blob blobResponse
	if err := c.getJSON(ctx, "git_blob", c.repoURL(src, "git", "blobs", blobSHA), token, src, &blob); err != nil {
		return nil, err
	}
	return decodeBlob(blob)
}

// decodeBlob turns a Git Data API blob into bytes.
func decodeBlob(b blobResponse) ([]byte, error) {
	switch b.Encoding {
	case "base64":
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(b.Content)
		out, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, &APIError{Endpoint: "git_blob", Message: "blob content is not valid base64", Err: err}
		}
		return out, nil
	case "utf-8", "":
		return []byte(b.Content), nil
	default:
		return nil, &APIError{Endpoint: "git_blob", Message: fmt.Sprintf("unsupported blob encoding %q", b.Encoding)}
	}
}

// getJSON performs get with the JSON media type and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, kind, endpoint, token string, src domain.Source, dst any) error {
	body, err := c.get(ctx, kind, endpoint, mediaJSON, token, src)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &APIError{Endpoint: kind, Message: "unexpected response from GitHub", Err: err}
	}
	return nil
}

// get performs one GET and classifies non-200 statuses into *APIError.
func (c *Client) get(ctx context.Context, kind, endpoint, accept, token string, src domain.Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github.Client.get: build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	c.auth.Apply(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveGitHub(kind, 0)
		return nil, &APIError{Endpoint: kind, Message: "could not reach GitHub", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveGitHub(kind, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, classify(resp, kind, src, token != "")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &APIError{Endpoint: kind, Message: "reading the response from GitHub failed", Err: err}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, &APIError{Endpoint: kind, Message: fmt.Sprintf("document is larger than %d bytes", c.maxBytes)}
	}
	return body, nil
}

// classify builds the user-facing error for a non-200 response.
func classify(resp *http.Response, kind string, src domain.Source, hasToken bool) *APIError {
	e := &APIError{StatusCode: resp.StatusCode, Endpoint: kind}
	location := fmt.Sprintf("%s/%s@%s", src.Owner, src.Repo, src.Ref)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Message = "GitHub rejected the access token; update or remove it in settings"
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.StatusCode == http.StatusTooManyRequests || resp.Header.Get("X-RateLimit-Remaining") == "0" {
			e.RateLimited = true
			e.Message = "GitHub API rate limit exceeded"
			if reset := resetTime(resp.Header.Get("X-RateLimit-Reset")); reset != "" {
				e.Message += ", resets at " + reset
			}
			if !hasToken {
				e.Message += "; adding a token raises the limit"
			}
			return e
		}
		e.Message = fmt.Sprintf("access to %s/%s is forbidden", src.Owner, src.Repo)
	case http.StatusNotFound:
		e.Message = fmt.Sprintf("%s was not found in %s", src.Path, location)
		if !hasToken {
			e.Message += "; if the repository is private, add a token in settings"
		}
	default:
		e.Message = fmt.Sprintf("GitHub returned %s", resp.Status)
	}
	return e
}

// resetTime formats an X-RateLimit-Reset epoch as RFC 3339 in UTC.
func resetTime(v string) string {
	if v == "" {
		return ""
	}
	var secs int64
	if _, err := fmt.Sscan(v, &secs); err != nil || secs <= 0 {
		return ""
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339)
}

// repoURL joins /repos/{owner}/{repo}/... onto the base URL.
func (c *Client) repoURL(src domain.Source, parts ...string) string {
	return c.baseURL + "/repos/" + url.PathEscape(src.Owner) + "/" + url.PathEscape(src.Repo) + "/" + strings.Join(parts, "/")
}

// escapePath escapes each segment of a repository path but keeps the slashes.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
