package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keep2org/internal/manifest"
	"github.com/pdiddy/keep2org/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect recorded conversion runs",
	Long: `Report reads the manifest database written by convert. By default it
lists the notes of the most recent run; --runs lists the runs themselves.
Notes can be filtered by tag and searched full-text, and the output can be
exported as JSON or YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("manifest-dir")
		if dir == "" {
			dir = viper.GetString("manifest.dir")
		}
		if dir == "" {
			dir = "."
		}

		store, err := manifest.NewStore(types.ManifestConfig{
			Dir:        dir,
			MaxResults: viper.GetInt("manifest.max_results"),
		})
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
			runs, err := store.Runs(ctx)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %s -> %s  (%d notes)\n",
					r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
					r.InputDir, r.OutputDir, r.NotesTotal)
			}
			return nil
		}

		opts := manifest.QueryOptions{}
		opts.RunID, _ = cmd.Flags().GetString("run")
		opts.Tag, _ = cmd.Flags().GetString("tag")
		opts.Search, _ = cmd.Flags().GetString("search")
		opts.MaxResults, _ = cmd.Flags().GetInt("limit")

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return store.ExportJSON(ctx, out, opts)
		case "yaml":
			return store.ExportYAML(ctx, out, opts)
		case "text":
			entries, err := store.Query(ctx, opts)
			if err != nil {
				return err
			}
			for _, e := range entries {
				status := " "
				if e.Archived {
					status = "A"
				}
				tags := ""
				if len(e.Tags) > 0 {
					tags = " [" + strings.Join(e.Tags, ",") + "]"
				}
				fmt.Fprintf(out, "%s %s  %s%s\n",
					status, e.Created.Format("2006-01-02 15:04"), e.Title, tags)
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
		}
	},
}

func init() {
	reportCmd.Flags().Bool("runs", false, "list recorded runs instead of notes")
	reportCmd.Flags().String("run", "", "run ID to report on (default: most recent)")
	reportCmd.Flags().String("tag", "", "filter notes by tag")
	reportCmd.Flags().String("search", "", "full-text search over titles and bodies")
	reportCmd.Flags().Int("limit", 0, "maximum number of notes to list")
	reportCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	reportCmd.Flags().String("manifest-dir", "", "directory of the manifest database")

	rootCmd.AddCommand(reportCmd)
}
