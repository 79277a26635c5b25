// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FallbackDate is substituted when a note carries no parseable creation
// timestamp.
var FallbackDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.Local)

// Attachment references a file exported alongside a note (images, audio).
type Attachment struct {
	// FilePath is the path recorded in the export, relative to the
	// Takeout directory. The file may or may not exist under that name.
	FilePath string `json:"file_path" yaml:"file_path"`
}

// Note is one exported Keep note, fully populated by the parser and never
// mutated after grouping.
type Note struct {
	// Title is the display title. Empty titles are derived from the body
	// at render time.
	Title string `json:"title" yaml:"title"`

	// Body is the multi-line text content, either the flat text field or
	// a rendered list.
	Body string `json:"body" yaml:"body"`

	// Tags lists the note's labels in source order.
	Tags []string `json:"tags" yaml:"tags"`

	// Archived is true for archived and for trashed notes; both are
	// treated the same.
	Archived bool `json:"archived" yaml:"archived"`

	// Created is the creation time, or FallbackDate when the export
	// carried none.
	Created time.Time `json:"created" yaml:"created"`

	// Attachments lists attachment references in source order.
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`

	// SourceFile is the JSON file this note was parsed from.
	SourceFile string `json:"source_file" yaml:"source_file"`
}
