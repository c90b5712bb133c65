package render

import (
	"strings"
	"testing"
)

func TestRenderBodyGroupsParagraphs(t *testing.T) {
	got := RenderBody("primera línea\nsegunda línea\n\notro párrafo")

	if !strings.Contains(got, "<p>primera línea segunda línea</p>") {
		t.Fatalf("lines not joined with single space: %s", got)
	}
	if !strings.Contains(got, "<p>otro párrafo</p>") {
		t.Fatalf("second paragraph missing: %s", got)
	}
}

func TestRenderBodyHardBreakOnTwoTrailingSpaces(t *testing.T) {
	got := RenderBody("línea uno  \nlínea dos")

	if !strings.Contains(got, "línea uno<br>línea dos") {
		t.Fatalf("expected hard break: %s", got)
	}
}

func TestRenderBodyInlineEmphasis(t *testing.T) {
	got := RenderBody("Hola **mundo** y *cursiva*")

	if !strings.Contains(got, "<strong>mundo</strong>") {
		t.Fatalf("bold not rendered: %s", got)
	}
	if !strings.Contains(got, "<em>cursiva</em>") {
		t.Fatalf("italic not rendered: %s", got)
	}
}

func TestRenderBodyFramedHeaders(t *testing.T) {
	got := RenderBody("## historia\n\n### detalles")

	if !strings.Contains(got, "<h2>╔═══ HISTORIA ═══╗</h2>") {
		t.Fatalf("h2 framing missing: %s", got)
	}
	if !strings.Contains(got, "<h3>★ DETALLES ★</h3>") {
		t.Fatalf("h3 framing missing: %s", got)
	}
}

func TestRenderBodyGroupsConsecutiveBullets(t *testing.T) {
	got := RenderBody("- uno\n- dos\n* tres\n\ndespués")

	if strings.Count(got, `<ul class="retro-list">`) != 1 {
		t.Fatalf("consecutive bullets must share one list: %s", got)
	}
	for _, item := range []string{"<li>► uno</li>", "<li>► dos</li>", "<li>► tres</li>"} {
		if !strings.Contains(got, item) {
			t.Fatalf("missing %q: %s", item, got)
		}
	}
	if !strings.Contains(got, "</ul>") {
		t.Fatalf("list not closed: %s", got)
	}
}

func TestRenderBodyBlockquotesArePerLine(t *testing.T) {
	got := RenderBody("> cita uno\n> cita dos")

	if strings.Count(got, `<blockquote class="retro-quote">`) != 2 {
		t.Fatalf("each quote line renders individually: %s", got)
	}
}

func TestRenderBodyCodeFencePassesThroughVerbatim(t *testing.T) {
	got := RenderBody("```\n10 PRINT \"**HOLA**\"\n20 GOTO 10\n```")

	if !strings.Contains(got, `<pre class="code-block">`) || !strings.Contains(got, "</pre>") {
		t.Fatalf("code block not framed: %s", got)
	}
	if !strings.Contains(got, `10 PRINT "**HOLA**"`) {
		t.Fatalf("code content transformed: %s", got)
	}
	if strings.Contains(got, "<strong>") {
		t.Fatalf("emphasis must not apply inside code: %s", got)
	}
}

func TestRenderBodyAutoClosesOpenContexts(t *testing.T) {
	list := RenderBody("- sin cierre")
	if !strings.HasSuffix(list, "</ul>") {
		t.Fatalf("open list not closed at EOF: %s", list)
	}

	code := RenderBody("```\nsin cierre")
	if !strings.HasSuffix(code, "</pre>") {
		t.Fatalf("open code block not closed at EOF: %s", code)
	}
}

func TestRenderBodyNoEmphasisInHeadersListsQuotes(t *testing.T) {
	got := RenderBody("## **titular**\n\n- **item**\n\n> **cita**")

	if strings.Contains(got, "<strong>") {
		t.Fatalf("emphasis leaked outside paragraph text: %s", got)
	}
}
