package syncer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/extract"
	"github.com/goliatone/go-publish/internal/render"
	"github.com/goliatone/go-publish/internal/runtimeconfig"
	"github.com/goliatone/go-publish/internal/store"
	"github.com/goliatone/go-publish/internal/transport"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

type fakeTransport struct {
	files     map[string]string
	extra     []string
	writes    []string
	written   map[string]string
	failWrite string
	connects  int
	connected bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{files: map[string]string{}, written: map[string]string{}}
}

func (f *fakeTransport) Connect(context.Context) error {
	f.connects++
	f.connected = true
	return nil
}

func (f *fakeTransport) List(_ context.Context, _ string) ([]string, error) {
	var names []string
	for name := range f.files {
		names = append(names, name)
	}
	return append(names, f.extra...), nil
}

func (f *fakeTransport) ReadText(_ context.Context, remotePath string) (string, error) {
	return f.files[path.Base(remotePath)], nil
}

func (f *fakeTransport) WriteText(_ context.Context, content, remotePath string) error {
	if f.failWrite != "" && path.Base(remotePath) == f.failWrite {
		return fmt.Errorf("write %s: broken pipe", remotePath)
	}
	f.writes = append(f.writes, remotePath)
	f.written[path.Base(remotePath)] = content
	return nil
}

func (f *fakeTransport) Remove(context.Context, string) error { return nil }

func (f *fakeTransport) Disconnect() error {
	f.connected = false
	return nil
}

func (f *fakeTransport) Protocol() string { return "ftp" }

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.Default()
	cfg.Server.Host = "ftp.example.com"
	cfg.Server.Username = "deploy"
	cfg.Server.RemotePath = "/public_html/blog"
	return cfg
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(memfs.New(), "articles", store.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func newOrchestrator(t *testing.T, st *store.Store, ft *fakeTransport, cfg runtimeconfig.Config) *Orchestrator {
	t.Helper()
	o, err := New(Options{
		Config:    cfg,
		Store:     st,
		Renderer:  render.New(render.Options{SiteName: "Mi Portal", TimeFunc: fixedClock}),
		Extractor: extract.New(nil),
		Transport: func(transport.Config) (interfaces.Transport, error) { return ft, nil },
		ExportFS:  memfs.New(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func createDraft(t *testing.T, st *store.Store, draft store.Draft) *article.Article {
	t.Helper()
	art, err := st.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return art
}

func TestPublishArticleUploadsPageAndIndex(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Mi Primer Día",
		Subtitle: "Un comienzo",
		Category: "TECNOLOGÍA",
		Content:  "Hola **mundo**",
		Tags:     []string{"retro"},
	})
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.PublishArticle(context.Background(), "mi-primer-dia", nil)
	if err != nil {
		t.Fatalf("PublishArticle: %v", err)
	}
	if res.Uploaded != 1 || res.LastStep != StepDone {
		t.Fatalf("result: %+v", res)
	}

	page, ok := ft.written["mi-primer-dia.html"]
	if !ok {
		t.Fatalf("article page not uploaded, writes: %v", ft.writes)
	}
	if !strings.Contains(page, "<strong>mundo</strong>") {
		t.Fatalf("rendered body missing:\n%s", page)
	}
	if _, ok := ft.written["index.html"]; !ok {
		t.Fatalf("listing page not regenerated, writes: %v", ft.writes)
	}

	art, err := st.Get(context.Background(), "mi-primer-dia")
	if err != nil || art == nil {
		t.Fatalf("Get: %v %v", art, err)
	}
	if !art.Published {
		t.Fatal("published flag not persisted")
	}
}

func TestPublishArticleRegeneratesIndexRegardlessOfAutoIndex(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Uno Dos",
		Subtitle: "s",
		Category: "CINE",
		Content:  "c",
		Tags:     []string{"t"},
	})
	ft := newFakeTransport()
	cfg := testConfig()
	cfg.Site.AutoIndex = false
	o := newOrchestrator(t, st, ft, cfg)

	if _, err := o.PublishArticle(context.Background(), "uno-dos", nil); err != nil {
		t.Fatalf("PublishArticle: %v", err)
	}
	if _, ok := ft.written["index.html"]; !ok {
		t.Fatalf("listing page must regenerate on every publish, writes: %v", ft.writes)
	}
}

func TestPublishArticleValidationAbortsBeforeAnySideEffect(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Incompleto",
		Category: "CINE",
		Content:  "texto",
		Tags:     []string{"x"},
	})
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	_, err := o.PublishArticle(context.Background(), "incompleto", nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if ft.connects != 0 {
		t.Fatal("validation failure must not connect")
	}

	art, _ := st.Get(context.Background(), "incompleto")
	if art.Published {
		t.Fatal("validation failure must not flip the published flag")
	}
}

func TestPublishArticleUnconfiguredServerAbortsBeforeIO(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Completo",
		Subtitle: "s",
		Category: "CINE",
		Content:  "c",
		Tags:     []string{"t"},
	})
	ft := newFakeTransport()
	cfg := testConfig()
	cfg.Server.Host = ""
	o := newOrchestrator(t, st, ft, cfg)

	_, err := o.PublishArticle(context.Background(), "completo", nil)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !strings.Contains(err.Error(), "configuration") {
		t.Fatalf("expected configuration failure, got %v", err)
	}
	if ft.connects != 0 {
		t.Fatal("configuration failure must not connect")
	}

	art, _ := st.Get(context.Background(), "completo")
	if art.Published {
		t.Fatal("configuration failure must not flip the published flag")
	}
}

func TestPublishArticleReportsMissingFieldsBeforeServerCheck(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Incompleto",
		Category: "CINE",
		Content:  "texto",
	})
	ft := newFakeTransport()
	cfg := testConfig()
	cfg.Server.Host = ""
	o := newOrchestrator(t, st, ft, cfg)

	_, err := o.PublishArticle(context.Background(), "incompleto", nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if strings.Contains(err.Error(), "configuration") {
		t.Fatalf("field validation must precede the server check, got %v", err)
	}

	var verr *article.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *article.ValidationError, got %v", err)
	}
	if len(verr.Missing) != 2 || verr.Missing[0] != "subtitle" || verr.Missing[1] != "tags" {
		t.Fatalf("missing fields: %v", verr.Missing)
	}
}

func TestPublishArticleUnknownID(t *testing.T) {
	st := newTestStore(t)
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	_, err := o.PublishArticle(context.Background(), "fantasma", nil)
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if ft.connects != 0 {
		t.Fatal("missing article must not connect")
	}
}

func TestPublishAllNothingToDoSkipsConnection(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:    "Borrador",
		Subtitle: "s",
		Category: "CINE",
		Content:  "c",
		Tags:     []string{"t"},
	})
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.PublishAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if ft.connects != 0 {
		t.Fatal("nothing-to-do run must not connect")
	}
	if len(res.Notes) != 1 || res.Notes[0] != "nothing to do" {
		t.Fatalf("notes: %v", res.Notes)
	}
}

func TestPublishAllUploadsEveryPublishedArticleThenIndex(t *testing.T) {
	st := newTestStore(t)
	for _, title := range []string{"Uno Dos", "Tres Cuatro"} {
		createDraft(t, st, store.Draft{
			Title:     title,
			Subtitle:  "s",
			Category:  "CINE",
			Content:   "c",
			Tags:      []string{"t"},
			Published: true,
		})
	}
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.PublishAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if res.Uploaded != 2 {
		t.Fatalf("uploaded: %d", res.Uploaded)
	}
	want := []string{
		"/public_html/blog/uno-dos.html",
		"/public_html/blog/tres-cuatro.html",
		"/public_html/blog/index.html",
	}
	if len(ft.writes) != len(want) {
		t.Fatalf("writes: %v", ft.writes)
	}
	for i, path := range want {
		if ft.writes[i] != path {
			t.Fatalf("write %d = %q, want %q", i, ft.writes[i], path)
		}
	}
	if ft.connects != 1 {
		t.Fatalf("expected a single session, connects=%d", ft.connects)
	}
}

func TestPublishAllAbortsBatchOnFirstFailure(t *testing.T) {
	st := newTestStore(t)
	for _, title := range []string{"Uno Dos", "Tres Cuatro"} {
		createDraft(t, st, store.Draft{
			Title:     title,
			Subtitle:  "s",
			Category:  "CINE",
			Content:   "c",
			Tags:      []string{"t"},
			Published: true,
		})
	}
	ft := newFakeTransport()
	ft.failWrite = "tres-cuatro.html"
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.PublishAll(context.Background(), nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if res.Uploaded != 1 {
		t.Fatalf("already-uploaded count: %d", res.Uploaded)
	}
	if res.LastStep != StepTransferring {
		t.Fatalf("last step: %s", res.LastStep)
	}
	if _, ok := ft.written["index.html"]; ok {
		t.Fatal("listing page must not upload after an aborted batch")
	}
}

func snapshotPage(id, title, content string) string {
	return fmt.Sprintf(`<html><body>
<script type="application/json" id="article-data">{"id":%q,"title":%q,"category":"CINE","content":%q,"tags":["t"]}</script>
</body></html>`, id, title, content)
}

func TestImportRemoteCountsImportedSkippedFailed(t *testing.T) {
	st := newTestStore(t)
	local := createDraft(t, st, store.Draft{
		Title:    "Existente",
		Subtitle: "s",
		Category: "CINE",
		Content:  "contenido local",
		Tags:     []string{"t"},
	})

	ft := newFakeTransport()
	ft.files["nuevo.html"] = snapshotPage("nuevo", "Nuevo", "cuerpo remoto")
	ft.files["existente.html"] = snapshotPage("existente", "Existente", "cuerpo remoto")
	ft.files["roto.html"] = "<html><body><p>sin marcadores</p></body></html>"
	ft.files["index.html"] = "listado"
	ft.files["articulo.html"] = "plantilla"
	ft.extra = []string{"style.css"}
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.ImportRemote(context.Background(), nil)
	if err != nil {
		t.Fatalf("ImportRemote: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 || res.Failed != 1 {
		t.Fatalf("counts: %+v", res)
	}

	kept, _ := st.Get(context.Background(), "existente")
	if kept.Content != local.Content || kept.Modified != local.Modified {
		t.Fatalf("import with overwrite disabled mutated local record: %+v", kept)
	}

	imported, _ := st.Get(context.Background(), "nuevo")
	if imported == nil || !imported.Published || imported.Content != "cuerpo remoto" {
		t.Fatalf("imported record: %+v", imported)
	}
}

func TestExportMarkdownWritesDocumentsWithoutTouchingStore(t *testing.T) {
	st := newTestStore(t)
	ft := newFakeTransport()
	ft.files["nuevo.html"] = snapshotPage("nuevo", "Nuevo", "cuerpo remoto")
	o := newOrchestrator(t, st, ft, testConfig())

	res, err := o.ExportMarkdown(context.Background(), "descargas", nil)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	if res.Exported != 1 {
		t.Fatalf("exported: %d", res.Exported)
	}

	raw, err := util.ReadFile(o.exportFS, "descargas/nuevo.md")
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	doc := string(raw)
	if !strings.Contains(doc, "title: Nuevo") || !strings.Contains(doc, "cuerpo remoto") {
		t.Fatalf("document content:\n%s", doc)
	}

	entries, _ := st.List(context.Background())
	if len(entries) != 0 {
		t.Fatalf("export must not touch the store: %v", entries)
	}
}

func TestWorkflowsEmitProgressWithSharedRunID(t *testing.T) {
	st := newTestStore(t)
	createDraft(t, st, store.Draft{
		Title:     "Uno Dos",
		Subtitle:  "s",
		Category:  "CINE",
		Content:   "c",
		Tags:      []string{"t"},
		Published: true,
	})
	ft := newFakeTransport()
	o := newOrchestrator(t, st, ft, testConfig())

	var events []interfaces.ProgressEvent
	res, err := o.PublishAll(context.Background(), interfaces.ProgressFunc(func(ev interfaces.ProgressEvent) {
		events = append(events, ev)
	}))
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no progress events emitted")
	}
	for _, ev := range events {
		if ev.RunID != res.RunID {
			t.Fatalf("event run id %s != result run id %s", ev.RunID, res.RunID)
		}
	}
	last := events[len(events)-1]
	if last.Percent != 100 {
		t.Fatalf("final percent: %d", last.Percent)
	}
}
