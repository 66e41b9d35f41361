package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/suspect/internal/content"
	"github.com/Bitlatte/suspect/internal/date"
	"github.com/Bitlatte/suspect/internal/model"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Loads every post and reports problems without serving",
	Long: `The check command builds the post index exactly as serve and reload do
and prints a summary of the posts and tags found. It exits with an error on
the first post that fails to load or on a duplicate slug, so it can run
before deploying new content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), checkFormat)
	},
}

type postSummary struct {
	Slug     string     `yaml:"slug"`
	Title    string     `yaml:"title"`
	Author   string     `yaml:"author"`
	Created  date.Date  `yaml:"created"`
	Modified *date.Date `yaml:"modified,omitempty"`
	Tags     []string   `yaml:"tags,omitempty"`
	Path     string     `yaml:"path"`
}

type checkSummary struct {
	Posts []postSummary  `yaml:"posts"`
	Tags  map[string]int `yaml:"tags"`
}

func summarize(snap *content.Snapshot) checkSummary {
	summary := checkSummary{Tags: make(map[string]int)}
	for _, p := range snap.Posts() {
		summary.Posts = append(summary.Posts, postSummary{
			Slug:     p.Slug,
			Title:    p.Title,
			Author:   p.Author,
			Created:  p.Created,
			Modified: p.Modified,
			Tags:     tagStrings(p.Tags),
			Path:     p.Path,
		})
	}
	for _, tc := range snap.Tags() {
		summary.Tags[string(tc.Tag)] = tc.Count
	}
	return summary
}

func tagStrings(tags []model.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func runCheck(w io.Writer, format string) error {
	snap, err := content.NewBuilder(appConfig.ContentDir, newLoader(appConfig)).Build()
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL %s\n", appConfig.ContentDir)
		return err
	}

	summary := summarize(snap)
	switch format {
	case "yaml":
		out, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	case "table":
		table := tablewriter.NewTable(w,
			tablewriter.WithConfig(tablewriter.Config{
				Row: tw.CellConfig{
					Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
					Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				},
			}),
		)
		table.Header([]string{"Slug", "Title", "Created", "Tags"})
		for _, p := range summary.Posts {
			table.Append([]string{p.Slug, p.Title, p.Created.String(), strconv.Itoa(len(p.Tags))})
		}
		table.Render()
	default:
		return fmt.Errorf("unknown format %q: must be table or yaml", format)
	}

	color.New(color.FgGreen).Fprintf(w, "OK %d posts, %d tags in %s\n", snap.Len(), len(summary.Tags), appConfig.ContentDir)
	return nil
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "table", "output format: table or yaml")
	rootCmd.AddCommand(checkCmd)
}
