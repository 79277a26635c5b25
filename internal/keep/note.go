// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keep parses Google Keep Takeout exports: one JSON record per note,
// discovered by walking the export directory.
package keep

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/keep2org/pkg/types"
)

// MalformedNoteError reports a record that carries neither textContent nor
// listContent. The run aborts on the first one; there is no per-note recovery.
type MalformedNoteError struct {
	Path string
}

func (e *MalformedNoteError) Error() string {
	return fmt.Sprintf("note %s: neither textContent nor listContent present", e.Path)
}

// takeoutRecord mirrors the Keep Takeout JSON schema. TextContent and
// ListContent are pointers because presence, not emptiness, decides which
// content shape the note has.
type takeoutRecord struct {
	IsArchived           bool            `json:"isArchived"`
	IsTrashed            bool            `json:"isTrashed"`
	CreatedTimestampUsec int64           `json:"createdTimestampUsec"`
	Title                string          `json:"title"`
	TextContent          *string         `json:"textContent"`
	ListContent          []takeoutItem   `json:"listContent"`
	Attachments          []takeoutAttach `json:"attachments"`
	Labels               []takeoutLabel  `json:"labels"`
}

type takeoutItem struct {
	Text string `json:"text"`
}

type takeoutAttach struct {
	FilePath string `json:"filePath"`
}

type takeoutLabel struct {
	Name string `json:"name"`
}

// ParseNote decodes one Takeout JSON record into a Note. Trashed notes are
// treated as archived. A missing or non-positive creation timestamp falls
// back to types.FallbackDate rather than failing.
func ParseNote(path string, data []byte) (types.Note, error) {
	var rec takeoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.Note{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	note := types.Note{
		Title:      rec.Title,
		Archived:   rec.IsArchived || rec.IsTrashed,
		Created:    types.FallbackDate,
		SourceFile: path,
	}

	if rec.CreatedTimestampUsec > 0 {
		note.Created = time.UnixMicro(rec.CreatedTimestampUsec)
	}

	switch {
	case rec.TextContent != nil:
		note.Body = *rec.TextContent
	case rec.ListContent != nil:
		items := make([]string, len(rec.ListContent))
		for i, item := range rec.ListContent {
			items[i] = item.Text
		}
		note.Body = "List:\n" + strings.Join(items, "\n")
	default:
		return types.Note{}, &MalformedNoteError{Path: path}
	}

	for _, label := range rec.Labels {
		note.Tags = append(note.Tags, label.Name)
	}
	for _, att := range rec.Attachments {
		note.Attachments = append(note.Attachments, types.Attachment{FilePath: att.FilePath})
	}

	return note, nil
}
