package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keep2org/internal/convert"
	"github.com/pdiddy/keep2org/internal/manifest"
	"github.com/pdiddy/keep2org/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <inputDir> <outputDir>",
	Short: "Convert a Keep Takeout export to Org files",
	Long: `Convert walks inputDir for Keep note records (.json files), groups the
notes by label, and writes one Org outline file per group to outputDir.
Attachment files referenced by notes are copied to outputDir as well.

Archived and trashed notes are excluded unless --include-archived is set;
when included, they appear first in each file under an *Archived* heading.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.ConvertConfig{
			InputDir:        args[0],
			OutputDir:       args[1],
			IncludeArchived: boolSetting(cmd, "include-archived", "convert.include_archived"),
			SplitByTag:      boolSetting(cmd, "split-by-tag", "convert.split_by_tag"),
		}

		res, err := convert.Run(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if noManifest, _ := cmd.Flags().GetBool("no-manifest"); noManifest {
			return nil
		}

		dir, _ := cmd.Flags().GetString("manifest-dir")
		if dir == "" {
			dir = cfg.OutputDir
		}
		store, err := manifest.NewStore(types.ManifestConfig{Dir: dir})
		if err != nil {
			return err
		}
		defer store.Close()

		run := manifest.NewRun(cfg, len(res.Parsed))
		return store.RecordRun(cmd.Context(), run, res.Parsed)
	},
}

// boolSetting reads a boolean flag, falling back to the viper key when the
// flag was not set on the command line.
func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

func init() {
	convertCmd.Flags().Bool("include-archived", false, "include archived and trashed notes in the output")
	convertCmd.Flags().Bool("split-by-tag", false, "write one file per tag instead of a single Untagged file")
	convertCmd.Flags().Bool("no-manifest", false, "skip recording the run in the manifest database")
	convertCmd.Flags().String("manifest-dir", "", "directory for the manifest database (default: outputDir)")

	rootCmd.AddCommand(convertCmd)
}
