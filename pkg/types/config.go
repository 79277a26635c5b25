package types

// ConvertConfig holds settings for one conversion run.
type ConvertConfig struct {
	// InputDir is the root of the Keep Takeout export.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory Org files and copied attachments are
	// written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// IncludeArchived controls whether archived and trashed notes appear
	// in the output files.
	IncludeArchived bool `json:"include_archived" yaml:"include_archived"`

	// SplitByTag controls whether tagged notes are split into one file
	// per tag. When false all notes collect in the Untagged group.
	SplitByTag bool `json:"split_by_tag" yaml:"split_by_tag"`
}

// ManifestConfig holds settings for the run manifest database.
type ManifestConfig struct {
	// Dir is the directory holding keep2org.db (default: the output dir).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of report entries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
