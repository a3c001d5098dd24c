// Package richtext turns the free-text recipe fields into safe HTML.
//
// Instructions are written in Markdown, rendered with goldmark and passed
// through a bluemonday policy that only keeps basic formatting. Ingredients
// are split into one item per non-blank line.
package richtext

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	policy   *bluemonday.Policy
	md       goldmark.Markdown
	initOnce sync.Once
)

func initRenderer() {
	initOnce.Do(func() {
		policy = bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"h3", "h4", "h5",
			"code", "pre", "blockquote",
		)
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)

		md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	})
}

// Markdown renders src and sanitizes the result.
// Raw HTML in src never reaches the output unfiltered.
func Markdown(src string) (template.HTML, error) {
	initRenderer()

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// Lines splits text into trimmed, non-blank lines.
func Lines(text string) []string {
	var out []string
	for line := range strings.Lines(text) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
