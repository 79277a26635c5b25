// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the export-to-Org pipeline: discover note records,
// parse and group them, copy attachments, and write one Org file per group.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/keep2org/internal/keep"
	"github.com/pdiddy/keep2org/internal/org"
	"github.com/pdiddy/keep2org/pkg/types"
)

// untaggedGroup collects notes with no labels, and all notes when the run
// does not split by tag.
const untaggedGroup = "Untagged"

// archivedHeader precedes the archived blocks in a group file.
const archivedHeader = "* *Archived*\n"

// Result holds the outcome of one conversion run.
type Result struct {
	// Files is the number of group files written.
	Files int

	// Notes is the per-group note count summed over all groups. A note
	// with several tags is counted once per group, and the count covers
	// archived notes even when they are excluded from the output.
	Notes int

	// Copied and Missing count attachment files copied into the output
	// directory and attachment references with no file under any
	// candidate name.
	Copied  int
	Missing int

	// Parsed lists every note parsed during the run, in discovery order.
	Parsed []types.Note
}

// HasMissingAttachments reports whether any attachment reference could not
// be resolved to a file. The reference is still rendered as a link.
func (r Result) HasMissingAttachments() bool {
	return r.Missing > 0
}

// Run executes one conversion: walk cfg.InputDir for note records, parse
// each one, copy its attachments, group, and write cfg.OutputDir. Progress
// lines go to w. The first malformed record aborts the whole run; there is
// no partial-output guarantee.
func Run(cfg types.ConvertConfig, w io.Writer) (Result, error) {
	fmt.Fprintf(w, "Looking for notes in %s\n", cfg.InputDir)
	paths, err := keep.Discover(cfg.InputDir)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "Found %d notes\n", len(paths))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	var res Result
	groups := newGroups()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", path, err)
		}
		note, err := keep.ParseNote(path, data)
		if err != nil {
			return res, err
		}

		copied, missing, err := copyAttachments(cfg.InputDir, cfg.OutputDir, note)
		if err != nil {
			return res, err
		}
		res.Copied += copied
		res.Missing += missing

		groups.assign(note, cfg.SplitByTag)
		res.Parsed = append(res.Parsed, note)
	}

	for _, tag := range groups.tags() {
		count, err := writeGroup(cfg, tag, groups.notes(tag), w)
		if err != nil {
			return res, err
		}
		res.Files++
		res.Notes += count
	}

	fmt.Fprintf(w, "Wrote %d notes total\n", res.Notes)
	return res, nil
}

// groups is the tag-to-notes mapping for one run. Insertion order is kept so
// output is written in discovery order.
type groups struct {
	order []string
	byTag map[string][]types.Note
}

func newGroups() *groups {
	return &groups{byTag: make(map[string][]types.Note)}
}

func (g *groups) add(tag string, n types.Note) {
	if _, ok := g.byTag[tag]; !ok {
		g.order = append(g.order, tag)
	}
	g.byTag[tag] = append(g.byTag[tag], n)
}

// assign places a note into its groups. Splitting by tag puts the note in
// one group per label; untagged notes go only to the Untagged group. Without
// splitting, every note lands in Untagged so none is silently dropped.
func (g *groups) assign(n types.Note, splitByTag bool) {
	if splitByTag && len(n.Tags) > 0 {
		for _, tag := range n.Tags {
			g.add(tag, n)
		}
		return
	}
	g.add(untaggedGroup, n)
}

func (g *groups) tags() []string { return g.order }

func (g *groups) notes(tag string) []types.Note { return g.byTag[tag] }

// writeGroup sorts a group ascending by creation time, renders its notes,
// and writes the group file. Archived blocks come first under a single
// header when they are included at all. The returned count covers every
// note in the group regardless of the archive choice; the summary has
// always been reported that way.
func writeGroup(cfg types.ConvertConfig, tag string, notes []types.Note, w io.Writer) (int, error) {
	sorted := make([]types.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.Before(sorted[j].Created)
	})

	var active, archived []string
	for _, n := range sorted {
		block := org.Entry(n) + "\n"
		if n.Archived {
			archived = append(archived, block)
		} else {
			active = append(active, block)
		}
	}

	lines := active
	if len(archived) > 0 && cfg.IncludeArchived {
		lines = append(append([]string{archivedHeader}, archived...), active...)
	}

	outPath := filepath.Join(cfg.OutputDir, org.SafeFileName(tag))
	if err := os.WriteFile(outPath, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "Wrote %d notes to %s\n", len(notes), outPath)
	return len(notes), nil
}
