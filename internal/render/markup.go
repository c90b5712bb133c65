package render

import (
	"regexp"
	"strings"
)

var (
	strongPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emPattern     = regexp.MustCompile(`\*(.+?)\*`)
)

// RenderBody converts the lightweight markup dialect into the HTML body
// fragment embedded in article pages.
//
// Non-blank lines group into paragraphs separated by blank lines; a line
// ending in two trailing spaces forces a hard break, otherwise consecutive
// lines join with a single space. Outside paragraph grouping the dialect
// recognizes fenced code blocks (verbatim), framed level-2/3 headers,
// bullet lists (consecutive bullets share one container), and per-line
// blockquotes. Inline emphasis applies only within paragraph text. Open
// list and code contexts are auto-closed at end of input.
func RenderBody(content string) string {
	var html []string
	var para []string
	inList := false
	inCode := false

	flushParagraph := func() {
		if len(para) == 0 {
			return
		}
		var parts []string
		for i, line := range para {
			if strings.HasSuffix(line, "  ") {
				parts = append(parts, strings.TrimRight(line, " "), "<br>")
			} else {
				parts = append(parts, line)
				if i != len(para)-1 {
					parts = append(parts, " ")
				}
			}
		}
		text := strings.TrimSpace(strings.Join(parts, ""))
		text = strongPattern.ReplaceAllString(text, "<strong>$1</strong>")
		text = emPattern.ReplaceAllString(text, "<em>$1</em>")
		html = append(html, "<p>"+text+"</p>")
		para = nil
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, "\r")
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "```") {
			flushParagraph()
			if inCode {
				html = append(html, "</pre>")
				inCode = false
			} else {
				html = append(html, `<pre class="code-block">`)
				inCode = true
			}
			continue
		}
		if inCode {
			html = append(html, line)
			continue
		}

		if stripped == "" {
			flushParagraph()
			if inList {
				html = append(html, "</ul>")
				inList = false
			}
			continue
		}

		if after, ok := strings.CutPrefix(stripped, "## "); ok {
			flushParagraph()
			html = append(html, "<h2>╔═══ "+strings.ToUpper(after)+" ═══╗</h2>")
			continue
		}
		if after, ok := strings.CutPrefix(stripped, "### "); ok {
			flushParagraph()
			html = append(html, "<h3>★ "+strings.ToUpper(after)+" ★</h3>")
			continue
		}

		if strings.HasPrefix(stripped, "- ") || strings.HasPrefix(stripped, "* ") {
			flushParagraph()
			if !inList {
				html = append(html, `<ul class="retro-list">`)
				inList = true
			}
			html = append(html, "<li>► "+stripped[2:]+"</li>")
			continue
		}

		if after, ok := strings.CutPrefix(stripped, "> "); ok {
			flushParagraph()
			html = append(html, `<blockquote class="retro-quote"><p>`+after+"</p></blockquote>")
			continue
		}

		para = append(para, line)
	}

	flushParagraph()
	if inList {
		html = append(html, "</ul>")
	}
	if inCode {
		html = append(html, "</pre>")
	}

	return strings.Join(html, "\n\n")
}
