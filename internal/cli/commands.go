package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/github"
	"github.com/pkordes/specdeck/internal/service"
)

func newParseCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <url>",
		Short: "Print the normalized owner, repo, ref and path of a GitHub link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := github.ParseURL(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if v.GetString(keyOutput) == "json" {
				return writeJSON(out, src)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "owner\t%s\n", src.Owner)
			fmt.Fprintf(tw, "repo\t%s\n", src.Repo)
			fmt.Fprintf(tw, "ref\t%s\n", src.Ref)
			fmt.Fprintf(tw, "path\t%s\n", src.Path)
			fmt.Fprintf(tw, "key\t%s\n", src.Key)
			fmt.Fprintf(tw, "label\t%s\n", src.Label())
			return tw.Flush()
		},
	}
}

func newFetchCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch the raw content of a GitHub-hosted document to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, raw, err := fetch(cmd.Context(), v, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}

// tagsOutput is the JSON shape of the tags command.
type tagsOutput struct {
	Source     domain.Source    `json:"source"`
	Format     string           `json:"format"`
	Version    string           `json:"version"`
	Title      string           `json:"title"`
	APIVersion string           `json:"api_version,omitempty"`
	Tags       []domain.SpecTag `json:"tags"`
}

func newTagsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <url>",
		Short: "Fetch a document and list the tags of its side menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout(v))
			defer cancel()

			src, spec, err := newInspector(cmd, v).Inspect(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v.GetString(keyOutput) == "json" {
				return writeJSON(out, tagsOutput{
					Source:     src,
					Format:     spec.Format,
					Version:    spec.Version,
					Title:      spec.Title,
					APIVersion: spec.APIVersion,
					Tags:       spec.Tags,
				})
			}

			fmt.Fprintf(out, "%s %s (%s %s)\n\n", spec.Title, spec.APIVersion, spec.Format, spec.Version)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tOPERATIONS\tDESCRIPTION")
			for _, t := range spec.Tags {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", t.Name, t.Operations, t.Description)
			}
			return tw.Flush()
		},
	}
}

// fetch resolves rawURL and downloads it with the configured client and token.
func fetch(ctx context.Context, v *viper.Viper, rawURL string) (domain.Source, []byte, error) {
	src, err := github.ParseURL(rawURL)
	if err != nil {
		return domain.Source{}, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout(v))
	defer cancel()

	raw, err := newClient(v).Fetch(ctx, src, v.GetString(keyToken))
	if err != nil {
		return src, nil, err
	}
	return src, raw, nil
}

// staticToken serves the token given on the command line or in the environment.
type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

// newInspector builds a storage-less DocumentService; Inspect never touches the repo.
// Only errors are logged, to stderr, since the command reports failures itself.
func newInspector(cmd *cobra.Command, v *viper.Viper) *service.DocumentService {
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelError}))
	return service.NewDocumentService(nil, newClient(v), staticToken(v.GetString(keyToken)), nil, log)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
