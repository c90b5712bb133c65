package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// SnapshotElementID is the id of the machine-parsable script block embedding
// the full structured article inside every rendered page. Its presence is
// what makes reverse import lossless.
const SnapshotElementID = "article-data"

// Options configures a Renderer.
type Options struct {
	// SiteName appears in the page chrome and the listing page hero.
	SiteName string
	// SiteAuthor, when non-empty, is substituted for the article author in
	// rendered output and in the embedded snapshot.
	SiteAuthor string
	// TimeFunc overrides the clock used for the listing cache buster.
	TimeFunc func() time.Time
	// Logger is optional.
	Logger interfaces.LoggerProvider
}

// Renderer produces the HTML pages uploaded to the remote host.
type Renderer struct {
	siteName   string
	siteAuthor string
	clock      func() time.Time
	logger     interfaces.Logger
}

// New constructs a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		siteName:   opts.SiteName,
		siteAuthor: opts.SiteAuthor,
		clock:      opts.TimeFunc,
		logger:     logging.RenderLogger(opts.Logger),
	}
	if r.siteName == "" {
		r.siteName = "Artículos"
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	return r
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="description" content="{{.Subtitle}}">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="css/style.css">
</head>
<body>
    <header class="header">
        <h1 class="logo">{{.SiteName}}</h1>
        <nav class="nav"><a href="index.html" class="nav-link">[ ← VOLVER ]</a></nav>
    </header>
    <main>
        <article class="article">
            <header class="article-header">
                <span class="article-category">{{.Category}}</span>
                <span class="article-date">{{.Date}}</span>
                <h1 class="article-title">{{.Title}}</h1>
                <p class="article-subtitle">{{.Subtitle}}</p>
                <p class="article-meta">Por {{.Author}} · {{.ReadingTime}} min de lectura</p>
            </header>
            <div class="article-content">
{{.Body}}
            </div>
            <footer class="article-footer">
                <div class="article-tags">
                    {{.TagsHTML}}
                </div>
            </footer>
        </article>
    </main>
<script type="application/json" id="{{.SnapshotID}}">{{.Snapshot}}</script>
</body>
</html>
`))

type pageData struct {
	SiteName    string
	Title       string
	Subtitle    string
	Category    string
	Date        string
	Author      string
	ReadingTime int
	Body        string
	TagsHTML    string
	SnapshotID  string
	Snapshot    string
}

// Page renders the full article page: the body converted from the markup
// dialect plus the embedded structured snapshot for lossless re-import.
func (r *Renderer) Page(art *article.Article) (string, error) {
	author := r.effectiveAuthor(art)

	snapshot := art.Clone()
	snapshot.Author = author
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("render: encode snapshot %s: %w", art.ID, err)
	}

	data := pageData{
		SiteName:    r.siteName,
		Title:       art.Title,
		Subtitle:    art.Subtitle,
		Category:    strings.ToUpper(art.Category),
		Date:        displayDate(art.Created, "02-01-2006"),
		Author:      author,
		ReadingTime: readingTime(art.Content),
		Body:        RenderBody(art.Content),
		TagsHTML:    tagSpans(art.Tags),
		SnapshotID:  SnapshotElementID,
		Snapshot:    string(encoded),
	}

	var out strings.Builder
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render: page %s: %w", art.ID, err)
	}

	r.logger.Debug("article page rendered", "id", art.ID, "bytes", out.Len())
	return out.String(), nil
}

func (r *Renderer) effectiveAuthor(art *article.Article) string {
	if r.siteAuthor != "" {
		return r.siteAuthor
	}
	if art.Author != "" {
		return art.Author
	}
	return "Admin"
}

func tagSpans(tags []string) string {
	spans := make([]string, 0, len(tags))
	for _, tag := range tags {
		spans = append(spans, `<span class="tag">#`+strings.ToUpper(tag)+`</span>`)
	}
	return strings.Join(spans, "\n                    ")
}

// readingTime estimates minutes at 200 words per minute, never below one.
func readingTime(content string) int {
	words := len(strings.Fields(content))
	if words < 200 {
		return 1
	}
	return words / 200
}

// displayDate reformats a minute-resolution stamp for page chrome. The raw
// stamp is passed through when it does not parse; display must not fail a
// publish.
func displayDate(stamp, layout string) string {
	parsed, err := article.ParseStamp(stamp)
	if err != nil {
		return stamp
	}
	return parsed.Format(layout)
}
