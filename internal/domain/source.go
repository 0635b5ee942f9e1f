package domain

import (
	"path"
	"strings"
)

// Source is the normalized location of a document inside a GitHub repository.
// Two links that point at the same file produce the same Source, and Key is
// what uniqueness is enforced on.
type Source struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
	Path  string `json:"path"`
	Key   string `json:"key"`
}

// NewSource builds a Source and computes its dedup key.
// Owner and repo are case-insensitive on GitHub; ref and path are not.
func NewSource(owner, repo, ref, filePath string) Source {
	return Source{
		Owner: owner,
		Repo:  repo,
		Ref:   ref,
		Path:  filePath,
		Key:   strings.ToLower(owner) + "/" + strings.ToLower(repo) + "/" + ref + "/" + filePath,
	}
}

// Label is the fallback display name used when the user has not named a document.
func (s Source) Label() string {
	return s.Repo + "/" + path.Base(s.Path)
}

// IsCommitSHA reports whether Ref looks like a full 40-character commit SHA.
func (s Source) IsCommitSHA() bool {
	if len(s.Ref) != 40 {
		return false
	}
	for _, c := range s.Ref {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
