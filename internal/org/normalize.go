// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package org renders notes as Emacs Org outline entries: checkbox and
// wrapper markup normalization, tag strings, entry blocks, and safe output
// file names.
package org

import (
	"html"
	"strings"

	"github.com/pdiddy/keep2org/pkg/types"
)

// The Keep export emits a small fixed set of markup fragments. They are
// matched literally; this is not an HTML parser and never needs to be one.
const (
	uncheckedItem = "<li class=\"listitem\"><span class=\"bullet\">&#9744;</span>\n"
	checkedItem   = "<li class=\"listitem checked\"><span class=\"bullet\">&#9745;</span>"
)

var wrapperFragments = []string{
	`<span class="text">`,
	"</span>",
	"</li>",
	`<ul class="list">`,
	"</ul>",
}

// Normalize returns a copy of the note ready for rendering: checkbox markup
// converted to Org syntax, wrapper fragments stripped, HTML entities
// unescaped, the note's own hashtags removed from the body, attachment links
// appended, and a title derived from the body when none was supplied.
// The order of these steps matters; see the tests.
func Normalize(n types.Note) types.Note {
	body := n.Body
	title := n.Title

	body = strings.ReplaceAll(body, uncheckedItem, "- [ ] ")
	body = strings.ReplaceAll(body, checkedItem, "- [X] ")
	for _, frag := range wrapperFragments {
		body = strings.ReplaceAll(body, frag, "")
	}
	// A checkbox immediately followed by a line break has its content on the
	// next line; collapse the marker line onto it.
	for _, marker := range []string{"- [ ] \n", "- [X] \n"} {
		body = strings.ReplaceAll(body, marker, marker[:len(marker)-1])
	}

	title = html.UnescapeString(title)
	body = html.UnescapeString(body)
	tags := make([]string, len(n.Tags))
	for i, tag := range n.Tags {
		tags[i] = html.UnescapeString(tag)
	}

	// Strip inline hashtag occurrences of the note's own labels. Literal and
	// non-anchored, so a tag recurring as plain text is stripped too.
	for _, tag := range tags {
		body = strings.ReplaceAll(body, "#"+tag, "")
	}

	links := make([]string, len(n.Attachments))
	for i, att := range n.Attachments {
		links[i] = "[[file:" + att.FilePath + "]]"
	}

	body = strings.TrimSpace(body)
	body += strings.Join(links, "\n")

	if title == "" {
		title, body = deriveTitle(body)
	}

	out := n
	out.Title = title
	out.Body = body
	out.Tags = tags
	return out
}

// deriveTitle promotes the first body line to the title. A body with no line
// break becomes the title wholesale, leaving the body empty.
func deriveTitle(body string) (title, rest string) {
	if i := strings.Index(body, "\n"); i >= 0 {
		return body[:i], body[i+1:]
	}
	return body, ""
}
