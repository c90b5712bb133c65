package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/goliatone/go-publish/internal/article"
)

// Legacy pages predate the embedded snapshot. Importing them is best effort:
// metadata comes from well-known page markers and the body is folded back
// into the markup dialect, accepting that formatting nuance may be lost.
var (
	titlePattern    = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	subtitlePattern = regexp.MustCompile(`(?is)<meta\s+name="description"\s+content="(.*?)"`)
	categoryPattern = regexp.MustCompile(`(?is)<span class="article-category">(.*?)</span>`)
	tagPattern      = regexp.MustCompile(`(?is)<span class="tag">#?(.*?)</span>`)
	contentPattern  = regexp.MustCompile(`(?is)<div class="article-content">(.*?)</div>`)
)

// fromLegacy scrapes a page without a snapshot block. It returns nil when
// none of the title, category, or content markers are present, so callers
// can tell "not an article page" apart from a degraded import.
func fromLegacy(page, filename string) *article.Article {
	title := firstMatch(titlePattern, page)
	category := firstMatch(categoryPattern, page)
	body := firstMatch(contentPattern, page)

	if title == "" && category == "" && body == "" {
		return nil
	}

	if canonical := article.CanonicalCategory(category); canonical != "" {
		category = canonical
	}

	art := &article.Article{
		ID:        idFromFilename(filename),
		Title:     title,
		Subtitle:  firstMatch(subtitlePattern, page),
		Category:  category,
		Content:   htmlToDialect(body),
		Tags:      legacyTags(page),
		Published: true,
	}
	if art.Title == "" {
		art.Title = fallbackTitle(art.ID)
	}
	return art
}

func firstMatch(pattern *regexp.Regexp, page string) string {
	match := pattern.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(match[1]))
}

func legacyTags(page string) []string {
	var tags []string
	for _, match := range tagPattern.FindAllStringSubmatch(page, -1) {
		tag := strings.ToLower(strings.TrimSpace(html.UnescapeString(match[1])))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// fallbackTitle humanizes an article id when the page carries no usable
// title marker.
func fallbackTitle(id string) string {
	if id == "" {
		return "Sin título"
	}
	words := strings.Split(id, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

var (
	preBlockPattern   = regexp.MustCompile(`(?is)<pre[^>]*>\n?(.*?)\n?</pre>`)
	h2Pattern         = regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`)
	h3Pattern         = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	liPattern         = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	listWrapPattern   = regexp.MustCompile(`(?is)</?[uo]l[^>]*>`)
	quotePattern      = regexp.MustCompile(`(?is)<blockquote[^>]*>\s*(?:<p>)?(.*?)(?:</p>)?\s*</blockquote>`)
	paragraphPattern  = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	breakPattern      = regexp.MustCompile(`(?i)<br\s*/?>`)
	strongTagPattern  = regexp.MustCompile(`(?is)<(?:strong|b)>(.*?)</(?:strong|b)>`)
	emTagPattern      = regexp.MustCompile(`(?is)<(?:em|i)>(.*?)</(?:em|i)>`)
	leftoverPattern   = regexp.MustCompile(`(?s)<[^>]+>`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	headerDecorations = strings.NewReplacer("╔", "", "═", "", "╗", "", "★", "", "►", "")
)

// htmlToDialect folds rendered HTML back into the markup dialect. Block
// structures are unwrapped outermost first so inline substitutions only see
// their own text.
func htmlToDialect(body string) string {
	text := strings.ReplaceAll(body, "\r\n", "\n")

	text = preBlockPattern.ReplaceAllString(text, "\n```\n$1\n```\n")
	text = h2Pattern.ReplaceAllStringFunc(text, func(match string) string {
		return "\n## " + headerText(h2Pattern, match) + "\n"
	})
	text = h3Pattern.ReplaceAllStringFunc(text, func(match string) string {
		return "\n### " + headerText(h3Pattern, match) + "\n"
	})
	text = liPattern.ReplaceAllStringFunc(text, func(match string) string {
		return "- " + headerText(liPattern, match) + "\n"
	})
	text = listWrapPattern.ReplaceAllString(text, "\n")
	text = quotePattern.ReplaceAllString(text, "\n> $1\n")
	text = breakPattern.ReplaceAllString(text, "  \n")
	text = paragraphPattern.ReplaceAllString(text, "\n$1\n")
	text = strongTagPattern.ReplaceAllString(text, "**$1**")
	text = emTagPattern.ReplaceAllString(text, "*$1*")
	text = leftoverPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRunPattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func headerText(pattern *regexp.Regexp, match string) string {
	inner := pattern.FindStringSubmatch(match)[1]
	return strings.TrimSpace(headerDecorations.Replace(inner))
}
