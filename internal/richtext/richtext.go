// Package richtext turns the Markdown typed into the body editor into the
// HTML blob the mail API expects.
package richtext

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md         goldmark.Markdown
	bodyPolicy *bluemonday.Policy
	initOnce   sync.Once
)

func initRenderer() {
	initOnce.Do(func() {
		// Raw HTML is passed through so pasted markup survives; the
		// sanitiser below is the only filter.
		md = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)

		// UGCPolicy keeps the formatting an email body needs and drops
		// scripts, handlers and javascript: URLs.
		bodyPolicy = bluemonday.UGCPolicy()
		bodyPolicy.RequireNoFollowOnLinks(false)
	})
}

// IsEmpty reports whether the editor content has no visible text.
func IsEmpty(markdown string) bool {
	return strings.TrimSpace(markdown) == ""
}

// ToHTML renders markdown and sanitises the result. Empty input yields "".
func ToHTML(markdown string) (string, error) {
	initRenderer()

	if IsEmpty(markdown) {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering body: %w", err)
	}

	return strings.TrimSpace(bodyPolicy.Sanitize(buf.String())), nil
}
