// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/keep2org/internal/keep"
	"github.com/pdiddy/keep2org/pkg/types"
)

// writeNote writes one Takeout JSON record into dir.
func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func TestRunArchivedPartition(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	// The active note is older than the archived one; partitions are
	// ordered independently, archived first.
	writeNote(t, in, "old.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Active note", "textContent": "still here"}`)
	writeNote(t, in, "gone.json",
		`{"isArchived": true, "createdTimestampUsec": 1500000000000000, "title": "Archived note", "textContent": "done with this"}`)

	var log bytes.Buffer
	res, err := Run(types.ConvertConfig{
		InputDir:        in,
		OutputDir:       out,
		IncludeArchived: true,
	}, &log)
	if err != nil {
		t.Fatal(err)
	}

	content := readOutput(t, out, "Untagged.org")
	if !strings.HasPrefix(content, "* *Archived*\n") {
		t.Errorf("output does not start with the archived header:\n%s", content)
	}
	archivedAt := strings.Index(content, "** Archived note")
	activeAt := strings.Index(content, "* Active note")
	if archivedAt < 0 || activeAt < 0 {
		t.Fatalf("missing note blocks:\n%s", content)
	}
	if archivedAt > activeAt {
		t.Errorf("archived block should precede active block:\n%s", content)
	}

	if res.Files != 1 || res.Notes != 2 {
		t.Errorf("res = %+v, want 1 file, 2 notes", res)
	}
}

func TestRunExcludesArchived(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeNote(t, in, "a.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Active note", "textContent": "still here"}`)
	writeNote(t, in, "b.json",
		`{"isArchived": true, "createdTimestampUsec": 1500000000000000, "title": "Archived note", "textContent": "done"}`)

	var log bytes.Buffer
	res, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out}, &log)
	if err != nil {
		t.Fatal(err)
	}

	content := readOutput(t, out, "Untagged.org")
	if strings.Contains(content, "Archived") {
		t.Errorf("archived content leaked into output:\n%s", content)
	}
	// The per-group count has always covered excluded notes too.
	if !strings.Contains(log.String(), "Wrote 2 notes to") {
		t.Errorf("group count should cover excluded archived notes, log:\n%s", log.String())
	}
	if res.Notes != 2 {
		t.Errorf("res.Notes = %d, want 2", res.Notes)
	}
}

func TestRunSplitByTag(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeNote(t, in, "tagged.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Tagged", "textContent": "", "labels": [{"name": "home"}, {"name": "todo"}]}`)
	writeNote(t, in, "plain.json",
		`{"createdTimestampUsec": 1500000000000000, "title": "Plain", "textContent": ""}`)

	var log bytes.Buffer
	_, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out, SplitByTag: true}, &log)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"home.org", "todo.org"} {
		content := readOutput(t, out, name)
		if !strings.Contains(content, "Tagged") {
			t.Errorf("%s missing tagged note:\n%s", name, content)
		}
		if !strings.Contains(content, ":home:todo:") {
			t.Errorf("%s missing tag string:\n%s", name, content)
		}
	}

	untagged := readOutput(t, out, "Untagged.org")
	if strings.Contains(untagged, "Tagged") {
		t.Errorf("tagged note leaked into Untagged group:\n%s", untagged)
	}
	if !strings.Contains(untagged, "Plain") {
		t.Errorf("untagged note missing from Untagged group:\n%s", untagged)
	}
}

func TestRunWithoutSplitCollectsEverything(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeNote(t, in, "tagged.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Tagged", "textContent": "", "labels": [{"name": "home"}]}`)
	writeNote(t, in, "plain.json",
		`{"createdTimestampUsec": 1500000000000000, "title": "Plain", "textContent": ""}`)

	var log bytes.Buffer
	res, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out}, &log)
	if err != nil {
		t.Fatal(err)
	}

	if res.Files != 1 {
		t.Fatalf("res.Files = %d, want 1", res.Files)
	}
	content := readOutput(t, out, "Untagged.org")
	for _, title := range []string{"Tagged", "Plain"} {
		if !strings.Contains(content, title) {
			t.Errorf("Untagged.org missing %q:\n%s", title, content)
		}
	}
}

func TestRunSortsByCreationTime(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	// Discovery order (lexical) is the reverse of timestamp order.
	writeNote(t, in, "a.json",
		`{"createdTimestampUsec": 1500000000000000, "title": "Newer", "textContent": "b"}`)
	writeNote(t, in, "b.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Older", "textContent": "a"}`)

	var log bytes.Buffer
	if _, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out}, &log); err != nil {
		t.Fatal(err)
	}

	content := readOutput(t, out, "Untagged.org")
	if strings.Index(content, "Older") > strings.Index(content, "Newer") {
		t.Errorf("notes not sorted ascending by creation time:\n%s", content)
	}
}

func TestRunMalformedNoteAborts(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeNote(t, in, "broken.json", `{"title": "No content at all"}`)

	var log bytes.Buffer
	_, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out}, &log)

	var malformed *keep.MalformedNoteError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedNoteError", err)
	}
}

func TestRunCopiesAttachments(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	attDir := filepath.Join(in, "attachments")
	if err := os.MkdirAll(attDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// One attachment exists as recorded, one only under the jpg fallback
	// name, one not at all.
	if err := os.WriteFile(filepath.Join(attDir, "exact.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(attDir, "swapped.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeNote(t, in, "note.json",
		`{"createdTimestampUsec": 1400000000000000, "title": "Trip", "textContent": "photos",
		  "attachments": [
			{"filePath": "attachments/exact.png"},
			{"filePath": "attachments/swapped.png"},
			{"filePath": "attachments/gone.png"}
		]}`)

	var log bytes.Buffer
	res, err := Run(types.ConvertConfig{InputDir: in, OutputDir: out}, &log)
	if err != nil {
		t.Fatal(err)
	}

	if res.Copied != 2 || res.Missing != 1 {
		t.Errorf("res = %+v, want 2 copied, 1 missing", res)
	}
	if !res.HasMissingAttachments() {
		t.Error("HasMissingAttachments() = false, want true")
	}
	for _, name := range []string{"exact.png", "swapped.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("attachment %s not copied: %v", name, err)
		}
	}

	// The unresolved reference still renders as a link.
	content := readOutput(t, out, "Untagged.org")
	if !strings.Contains(content, "[[file:attachments/gone.png]]") {
		t.Errorf("dangling attachment link missing:\n%s", content)
	}
}
