// Package extract recovers structured articles from published HTML pages.
//
// Extraction is two-tier. Pages produced by this system embed a JSON
// snapshot of the full article, so reading them back is lossless. Pages
// that predate the snapshot fall back to scraping well-known markers and
// folding the body back into the markup dialect.
package extract

import (
	"fmt"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// Extractor turns page HTML back into articles.
type Extractor struct {
	logger interfaces.Logger
}

// New constructs an Extractor. The logger provider is optional.
func New(provider interfaces.LoggerProvider) *Extractor {
	return &Extractor{logger: logging.ExtractLogger(provider)}
}

// FromPage recovers an article from page HTML. The snapshot path is tried
// first; the legacy scraper runs only when no usable snapshot exists. It
// returns ErrExtractionFailed when neither path recognizes the page as an
// article.
func (e *Extractor) FromPage(page, filename string) (*article.Article, error) {
	if art := fromSnapshot(page, filename); art != nil {
		e.logger.Debug("snapshot extraction", "file", filename, "id", art.ID)
		return art, nil
	}

	if art := fromLegacy(page, filename); art != nil {
		e.logger.Debug("legacy extraction", "file", filename, "id", art.ID)
		return art, nil
	}

	return nil, fmt.Errorf("extract: %s: %w", filename, article.ErrExtractionFailed)
}
