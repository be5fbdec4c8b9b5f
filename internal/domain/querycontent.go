package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// The thread protocol embeds human-readable metadata tags inside the stored
// message body because the external table store has no thread or status
// columns: `[[parent:<id>]][[status:<open|resolved>]] <free text>`. The
// parent tag is omitted for thread roots; status defaults to open.

var (
	parentTagRe = regexp.MustCompile(`\[\[parent:([^\]]+)\]\]`)
	statusTagRe = regexp.MustCompile(`\[\[status:(open|resolved)\]\]`)
)

// QueryContent is the decoded form of a stored query message
type QueryContent struct {
	Parent  string      `json:"parent,omitempty"`
	Status  QueryStatus `json:"status"`
	Message string      `json:"message"`
}

// QueryContentOptions carries the optional tags for BuildQueryContent
type QueryContentOptions struct {
	Parent string
	Status QueryStatus
}

// ParseQueryContent extracts the parent and status tags from a raw stored
// message and strips them to yield the clean display text. Status defaults
// to open when the tag is absent.
func ParseQueryContent(raw string) QueryContent {
	content := QueryContent{Status: QueryStatusOpen}

	if m := parentTagRe.FindStringSubmatch(raw); m != nil {
		content.Parent = m[1]
	}
	if m := statusTagRe.FindStringSubmatch(raw); m != nil {
		content.Status = QueryStatus(m[1])
	}

	stripped := parentTagRe.ReplaceAllString(raw, "")
	stripped = statusTagRe.ReplaceAllString(stripped, "")
	content.Message = strings.TrimSpace(stripped)

	return content
}

// BuildQueryContent is the inverse of ParseQueryContent. Status defaults to
// open; the parent tag is omitted when not supplied.
func BuildQueryContent(message string, opts QueryContentOptions) string {
	status := opts.Status
	if status == "" {
		status = QueryStatusOpen
	}

	var b strings.Builder
	if opts.Parent != "" {
		fmt.Fprintf(&b, "[[parent:%s]]", opts.Parent)
	}
	fmt.Fprintf(&b, "[[status:%s]]", status)
	b.WriteString(" ")
	b.WriteString(message)
	return b.String()
}

// UpdateQueryStatus replaces an existing status tag in place, or prepends
// one if absent, without disturbing the parent tag or message body.
func UpdateQueryStatus(content string, newStatus QueryStatus) string {
	tag := fmt.Sprintf("[[status:%s]]", newStatus)
	if statusTagRe.MatchString(content) {
		return statusTagRe.ReplaceAllString(content, tag)
	}
	return tag + content
}

// IsRootQuery reports whether the content marks a thread root: root
// detection is purely the absence of a parent tag.
func IsRootQuery(content string) bool {
	return !parentTagRe.MatchString(content)
}

// GetParentID returns the parent id carried in the content, empty for roots
func GetParentID(content string) string {
	if m := parentTagRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}
