package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/goliatone/go-publish/internal/article"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="description" content="{{.SiteName}}">
    <meta http-equiv="Cache-Control" content="no-cache, no-store, must-revalidate">
    <title>{{.SiteName}}</title>
    <link rel="stylesheet" href="css/style.css?v={{.CacheBuster}}">
</head>
<body>
    <header class="header">
        <h1 class="logo">{{.SiteName}}</h1>
    </header>
    <main>
        <section class="hero">
            <div class="hero-stats">
                <span class="stat-num">{{.PublishedCount}}</span>
                <span class="stat-label">ARTÍCULOS</span>
            </div>
        </section>
        <section id="temas" class="tag-cloud">
            <h2 class="section-title">TEMAS</h2>
            <div class="cloud-content">
                {{.TagCloud}}
            </div>
        </section>
        <section id="articulos" class="articles">
            <h2 class="section-title">ÚLTIMOS ARTÍCULOS</h2>
            <div class="articles-grid">
{{.Cards}}
            </div>
        </section>
    </main>
</body>
</html>
`))

var cardTemplate = template.Must(template.New("card").Parse(`<article class="card">
        <div class="card-header">
            <span class="card-category">{{.Category}}</span>
            <span class="card-date">{{.Date}}</span>
        </div>
        <h3 class="card-title">{{.Title}}</h3>
        <p class="card-excerpt">{{.Excerpt}}</p>
        <a href="{{.Filename}}" class="card-link">[ LEER MÁS → ]</a>
    </article>`))

type indexData struct {
	SiteName       string
	CacheBuster    string
	PublishedCount int
	TagCloud       string
	Cards          string
}

type cardData struct {
	Category string
	Date     string
	Title    string
	Excerpt  string
	Filename string
}

const excerptRunes = 150

// IndexPage regenerates the listing page from the published subset of the
// given articles: newest first, one card per article, plus an aggregate tag
// cloud. The stylesheet link carries a cache-busting query so intermediary
// caches pick up regenerated pages.
func (r *Renderer) IndexPage(articles []*article.Article) (string, error) {
	published := make([]*article.Article, 0, len(articles))
	for _, art := range articles {
		if art != nil && art.Published {
			published = append(published, art)
		}
	}
	// Created stamps sort lexicographically; newest first.
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].Created > published[j].Created
	})

	var cards []string
	tags := map[string]struct{}{}
	for _, art := range published {
		card, err := renderCard(art)
		if err != nil {
			return "", err
		}
		cards = append(cards, card)
		for _, tag := range art.Tags {
			tags[strings.ToUpper(tag)] = struct{}{}
		}
	}

	data := indexData{
		SiteName:       r.siteName,
		CacheBuster:    r.clock().Format("20060102150405"),
		PublishedCount: len(published),
		TagCloud:       tagCloud(tags),
		Cards:          strings.Join(cards, "\n\n"),
	}

	var out strings.Builder
	if err := indexTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render: index page: %w", err)
	}

	r.logger.Debug("index page rendered", "published", len(published))
	return out.String(), nil
}

func renderCard(art *article.Article) (string, error) {
	var out strings.Builder
	err := cardTemplate.Execute(&out, cardData{
		Category: strings.ToUpper(art.Category),
		Date:     displayDate(art.Created, "02/01/2006"),
		Title:    art.Title,
		Excerpt:  excerpt(art.Content),
		Filename: art.ID + ".html",
	})
	if err != nil {
		return "", fmt.Errorf("render: card %s: %w", art.ID, err)
	}
	return out.String(), nil
}

// excerpt truncates at the last word boundary before the rune limit.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	cut := string(runes[:excerptRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func tagCloud(tags map[string]struct{}) string {
	sorted := make([]string, 0, len(tags))
	for tag := range tags {
		sorted = append(sorted, tag)
	}
	sort.Strings(sorted)

	links := make([]string, 0, len(sorted))
	for _, tag := range sorted {
		links = append(links, `<a href="#articulos" class="cloud-tag">#`+tag+`</a>`)
	}
	return strings.Join(links, " ")
}
