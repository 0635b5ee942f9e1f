// Package cli implements the specdeck command line: inspect GitHub links to
// OpenAPI documents without running the server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/specdeck/internal/github"
)

// Configuration keys. Each is bound to the flag of the same name and to the
// upper-cased environment variable (api-url -> GITHUB_API_URL etc).
const (
	keyToken   = "token"
	keyAPIURL  = "api-url"
	keyTimeout = "timeout"
	keyOutput  = "output"
)

var envNames = map[string]string{
	keyToken:   "GITHUB_TOKEN",
	keyAPIURL:  "GITHUB_API_URL",
	keyTimeout: "GITHUB_TIMEOUT",
	keyOutput:  "SPECDECK_OUTPUT",
}

// NewRootCommand builds the specdeck command tree around v.
// Tests pass a fresh viper instance; main passes viper.New() too.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "specdeck",
		Short: "Inspect OpenAPI documents hosted on GitHub",
		Long: `specdeck normalizes GitHub links to OpenAPI and Swagger documents,
fetches their content through the GitHub API and lists their tags.

Configuration is read from flags, then environment variables, then a .env
file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v)
		},
	}

	pf := root.PersistentFlags()
	pf.String(keyToken, "", "GitHub token (env GITHUB_TOKEN)")
	pf.String(keyAPIURL, github.DefaultBaseURL, "GitHub API root (env GITHUB_API_URL)")
	pf.Duration(keyTimeout, github.DefaultTimeout, "timeout per GitHub request (env GITHUB_TIMEOUT)")
	pf.StringP(keyOutput, "o", "text", "output format: text or json (env SPECDECK_OUTPUT)")

	for _, key := range []string{keyToken, keyAPIURL, keyTimeout, keyOutput} {
		if err := v.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", key, err))
		}
	}

	root.AddCommand(newParseCommand(v), newFetchCommand(v), newTagsCommand(v))
	return root
}

// initConfig loads .env and binds environment variables.
func initConfig(v *viper.Viper) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	switch out := v.GetString(keyOutput); out {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q, expected text or json", out)
	}
	return nil
}

// newClient builds a GitHub client from the resolved configuration.
func newClient(v *viper.Viper) *github.Client {
	timeout := v.GetDuration(keyTimeout)
	if timeout <= 0 {
		timeout = github.DefaultTimeout
	}
	return github.NewClient(
		github.WithBaseURL(strings.TrimSpace(v.GetString(keyAPIURL))),
		github.WithTimeout(timeout),
	)
}

// Execute runs the CLI with signal-aware context and returns the exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := NewRootCommand(viper.New())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		return 1
	}
	return 0
}

// errorMessage prefers the user-facing message of a GitHub error.
func errorMessage(err error) string {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// fetchTimeout is the overall deadline for one command, covering a commit
// fallback of up to four calls.
func fetchTimeout(v *viper.Viper) time.Duration {
	t := v.GetDuration(keyTimeout)
	if t <= 0 {
		t = github.DefaultTimeout
	}
	return 4*t + 5*time.Second
}
