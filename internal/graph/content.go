// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"regexp"
	"strings"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// urlPattern matches http(s) URLs up to the next whitespace.
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s/$.?#].[^\s]*`)

// ParseContent splits pasted text into a body with the URLs removed and the
// URLs in the order they appear.
func ParseContent(text string) types.Content {
	urls := urlPattern.FindAllString(text, -1)
	if urls == nil {
		urls = []string{}
	}
	return types.Content{
		Body: strings.TrimSpace(urlPattern.ReplaceAllString(text, "")),
		URLs: urls,
	}
}

// ContentFromCapture maps a relay capture onto note content. The captured
// text becomes the body; the page URL, when present, is the only URL.
func ContentFromCapture(c types.Capture) types.Content {
	urls := []string{}
	if c.URL != "" {
		urls = append(urls, c.URL)
	}
	return types.Content{
		Title: c.Title,
		Body:  c.Text,
		URLs:  urls,
	}
}
