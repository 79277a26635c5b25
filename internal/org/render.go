// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package org

import (
	"fmt"
	"strings"

	"github.com/pdiddy/keep2org/pkg/types"
)

// Extension is the suffix of group output files.
const Extension = ".org"

// TagString encodes tags in Org syntax: ":tag1:tag2:" with a leading and
// trailing colon and no spaces. No tags encode as the empty string.
func TagString(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":")
	for _, tag := range tags {
		b.WriteString(tag)
		b.WriteString(":")
	}
	return b.String()
}

// Entry renders one note as an Org outline block. Archived notes nest one
// level deeper than active ones. The shape depends on which of body and tags
// are present; the both-present shape carries the body inline on the heading
// line, matching the output format this tool has always produced.
func Entry(n types.Note) string {
	n = Normalize(n)

	nesting := ""
	if n.Archived {
		nesting = "*"
	}
	props := fmt.Sprintf(":PROPERTIES:\n:CREATED:  [%s]\n:END:",
		n.Created.Format("2006-01-02 Mon 15:04"))

	hasBody := n.Body != ""
	hasTags := len(n.Tags) > 0
	switch {
	case hasBody && !hasTags:
		return fmt.Sprintf("*%s %s\n%s\n%s", nesting, n.Title, props, n.Body)
	case !hasBody && hasTags:
		return fmt.Sprintf("*%s %s %s\n%s\n", nesting, n.Title, TagString(n.Tags), props)
	case hasBody && hasTags:
		return fmt.Sprintf("*%s %s %s\n%s\n%s\n", nesting, n.Title, n.Body, TagString(n.Tags), props)
	default:
		return fmt.Sprintf("*%s %s\n%s", nesting, n.Title, props)
	}
}

// SafeFileName strips path separators and periods from a group tag so it can
// name an output file.
func SafeFileName(tag string) string {
	tag = strings.ReplaceAll(tag, "/", "")
	tag = strings.ReplaceAll(tag, ".", "")
	return tag + Extension
}
