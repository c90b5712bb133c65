package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-publish/internal/article"
)

// previewEngine renders the markup dialect as plain GFM for local preview.
// The dialect is a markdown subset, so goldmark handles it directly; the
// retro framing applied by RenderBody is an upload-time concern only.
var previewEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Preview renders the article body to a neutral HTML fragment for local
// display before publishing. It never touches the network or the store.
func (r *Renderer) Preview(art *article.Article) (string, error) {
	var buf bytes.Buffer
	if err := previewEngine.Convert([]byte(art.Content), &buf); err != nil {
		return "", fmt.Errorf("render: preview %s: %w", art.ID, err)
	}
	return buf.String(), nil
}
