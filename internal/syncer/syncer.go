// Package syncer orchestrates the publish, import, and export workflows that
// move articles between the local store and the remote web host.
//
// Each workflow is a finite step sequence: validation and configuration are
// checked before any side effect, exactly one transport session is open per
// run, and a failed step is terminal — already-committed steps are never
// rolled back. Progress is narrated through an optional ProgressSink.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/extract"
	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/internal/markdown"
	"github.com/goliatone/go-publish/internal/render"
	"github.com/goliatone/go-publish/internal/runtimeconfig"
	"github.com/goliatone/go-publish/internal/store"
	"github.com/goliatone/go-publish/internal/transport"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// Fixed remote names. The listing page and the page template are never
// treated as articles during import or export.
const (
	pageExt          = ".html"
	indexFileName    = "index.html"
	templateFileName = "articulo.html"
)

// TransportFactory builds the transport for a workflow run. Tests swap it
// for a fake; the default is transport.New.
type TransportFactory func(transport.Config) (interfaces.Transport, error)

// Options wires an Orchestrator.
type Options struct {
	Config    runtimeconfig.Config
	Store     *store.Store
	Renderer  *render.Renderer
	Extractor *extract.Extractor
	// Transport overrides the transport factory. Nil selects the real
	// FTP/SFTP implementations.
	Transport TransportFactory
	// ExportFS is the filesystem markdown exports are written to. Nil
	// selects the working directory.
	ExportFS billy.Filesystem
	Logger   interfaces.LoggerProvider
}

// Orchestrator runs the sync workflows. Callers must serialize invocations;
// two workflows never share a transport session.
type Orchestrator struct {
	cfg       runtimeconfig.Config
	store     *store.Store
	renderer  *render.Renderer
	extractor *extract.Extractor
	transport TransportFactory
	exportFS  billy.Filesystem
	provider  interfaces.LoggerProvider
	logger    interfaces.Logger
}

// New constructs an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Store == nil {
		return nil, errors.New("syncer: store is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("syncer: renderer is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("syncer: extractor is required")
	}

	o := &Orchestrator{
		cfg:       opts.Config,
		store:     opts.Store,
		renderer:  opts.Renderer,
		extractor: opts.Extractor,
		transport: opts.Transport,
		exportFS:  opts.ExportFS,
		provider:  opts.Logger,
		logger:    logging.SyncLogger(opts.Logger),
	}
	if o.transport == nil {
		o.transport = transport.New
	}
	if o.exportFS == nil {
		o.exportFS = osfs.New(".")
	}
	return o, nil
}

// PublishArticle validates, persists published=true, renders, and uploads a
// single article, then regenerates the listing page. Local state is
// committed before network I/O and is not rolled back on remote failure.
func (o *Orchestrator) PublishArticle(ctx context.Context, id string, sink interfaces.ProgressSink) (*Result, error) {
	res := newResult("publish")
	e := newEmitter(res.RunID, sink)
	log := logging.WithTransferContext(o.logger, o.cfg.Server.RemotePath, o.cfg.Server.Protocol, res.Workflow)

	// Field validation runs first so the author sees the complete
	// missing-field list even when the server section is also incomplete.
	art, err := o.store.Get(ctx, id)
	if err != nil {
		return res, wrapExecuteError(err)
	}
	if art == nil {
		return res, wrapNotFoundError(&article.NotFoundError{ID: id})
	}
	if err := article.ValidateForPublish(art); err != nil {
		return res, wrapValidationError(err)
	}
	if err := o.cfg.Validate(); err != nil {
		return res, wrapConfigError(err)
	}

	// The published flag commits before any network I/O; a remote failure
	// leaves it set (no rollback).
	published := true
	art, err = o.store.Update(ctx, id, store.Patch{Published: &published})
	if err != nil {
		return res, wrapExecuteError(err)
	}

	res.LastStep = StepConnecting
	tr, err := o.connect(ctx, e)
	if err != nil {
		return res, err
	}
	defer o.close(tr, log)

	res.LastStep = StepRendering
	e.setStatus("Generando HTML...")
	page, err := o.renderer.Page(art)
	if err != nil {
		return res, wrapExecuteError(err)
	}

	res.LastStep = StepTransferring
	e.line("> Subiendo %s...", art.ID+pageExt)
	if err := tr.WriteText(ctx, page, o.remoteFile(art.ID+pageExt)); err != nil {
		return res, wrapExecuteError(err)
	}
	res.Uploaded++
	e.progress(1, 1)

	res.LastStep = StepFinalizing
	if err := o.uploadIndex(ctx, tr, e); err != nil {
		return res, err
	}

	log.Info("article published", "id", art.ID)
	res.LastStep = StepDone
	return res, nil
}

// PublishAll uploads every locally-published article in store listing order
// and regenerates the listing page once at the end. With nothing published
// it reports "nothing to do" without connecting. A failure on any item
// aborts the remaining batch; already-uploaded items stay uploaded.
func (o *Orchestrator) PublishAll(ctx context.Context, sink interfaces.ProgressSink) (*Result, error) {
	res := newResult("publish-all")
	e := newEmitter(res.RunID, sink)
	log := logging.WithTransferContext(o.logger, o.cfg.Server.RemotePath, o.cfg.Server.Protocol, res.Workflow)

	if err := o.cfg.Validate(); err != nil {
		return res, wrapConfigError(err)
	}

	arts, err := o.loadPublished(ctx)
	if err != nil {
		return res, wrapExecuteError(err)
	}
	if len(arts) == 0 {
		e.line("  ! No hay artículos publicados")
		res.note("nothing to do")
		res.LastStep = StepDone
		return res, nil
	}

	res.LastStep = StepConnecting
	tr, err := o.connect(ctx, e)
	if err != nil {
		return res, err
	}
	defer o.close(tr, log)

	total := len(arts)
	e.line("> Subiendo %d artículos...", total)
	for i, art := range arts {
		res.LastStep = StepRendering
		page, err := o.renderer.Page(art)
		if err != nil {
			return res, wrapExecuteError(err)
		}

		res.LastStep = StepTransferring
		e.line("  [%d/%d] %s", i+1, total, art.ID+pageExt)
		if err := tr.WriteText(ctx, page, o.remoteFile(art.ID+pageExt)); err != nil {
			return res, wrapExecuteError(err)
		}
		res.Uploaded++
		e.progress(i+1, total)
	}

	res.LastStep = StepFinalizing
	if err := o.uploadIndex(ctx, tr, e); err != nil {
		return res, err
	}

	log.Info("batch published", "uploaded", res.Uploaded)
	res.LastStep = StepDone
	return res, nil
}

// ImportRemote lists remote article pages, extracts each one, and upserts it
// locally with overwrite disabled: existing records are reported as skipped,
// never clobbered. Extraction failures are accumulated per item; transport
// and store failures abort the run.
func (o *Orchestrator) ImportRemote(ctx context.Context, sink interfaces.ProgressSink) (*Result, error) {
	res := newResult("import")
	e := newEmitter(res.RunID, sink)
	log := logging.WithTransferContext(o.logger, o.cfg.Server.RemotePath, o.cfg.Server.Protocol, res.Workflow)

	if err := o.cfg.Validate(); err != nil {
		return res, wrapConfigError(err)
	}

	res.LastStep = StepConnecting
	tr, err := o.connect(ctx, e)
	if err != nil {
		return res, err
	}
	defer o.close(tr, log)

	res.LastStep = StepTransferring
	files, err := o.listArticleFiles(ctx, tr)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		e.line("  ! No hay artículos en el servidor")
		res.note("nothing to do")
		res.LastStep = StepDone
		return res, nil
	}

	total := len(files)
	e.line("> Importando %d artículos...", total)
	for i, name := range files {
		e.line("  [%d/%d] %s", i+1, total, name)

		res.LastStep = StepTransferring
		content, err := tr.ReadText(ctx, o.remoteFile(name))
		if err != nil {
			return res, wrapExecuteError(err)
		}
		if content == "" {
			res.Failed++
			res.note("%s: empty download", name)
			e.progress(i+1, total)
			continue
		}

		res.LastStep = StepExtracting
		art, err := o.extractor.FromPage(content, name)
		if err != nil {
			res.Failed++
			res.note("%s: %v", name, err)
			e.progress(i+1, total)
			continue
		}

		outcome, err := o.store.UpsertImported(ctx, art, false)
		if err != nil {
			return res, wrapExecuteError(err)
		}
		if outcome == store.ImportSkipped {
			res.Skipped++
			res.note("%s: local record kept", art.ID)
		} else {
			res.Imported++
		}
		e.progress(i+1, total)
	}

	log.Info("import finished",
		"imported", res.Imported, "skipped", res.Skipped, "failed", res.Failed)
	res.LastStep = StepDone
	return res, nil
}

// ExportMarkdown downloads every remote article page and writes each one as
// a standalone markdown document with front matter under destDir. The store
// is never touched. An empty destDir falls back to the configured export
// path.
func (o *Orchestrator) ExportMarkdown(ctx context.Context, destDir string, sink interfaces.ProgressSink) (*Result, error) {
	res := newResult("export")
	e := newEmitter(res.RunID, sink)
	log := logging.WithTransferContext(o.logger, o.cfg.Server.RemotePath, o.cfg.Server.Protocol, res.Workflow)

	if err := o.cfg.Validate(); err != nil {
		return res, wrapConfigError(err)
	}
	if destDir == "" {
		destDir = o.cfg.Local.ExportPath
	}

	res.LastStep = StepConnecting
	tr, err := o.connect(ctx, e)
	if err != nil {
		return res, err
	}
	defer o.close(tr, log)

	res.LastStep = StepTransferring
	files, err := o.listArticleFiles(ctx, tr)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		e.line("  ! No hay artículos en el servidor")
		res.note("nothing to do")
		res.LastStep = StepDone
		return res, nil
	}

	if err := o.exportFS.MkdirAll(destDir, 0o755); err != nil {
		return res, wrapExecuteError(fmt.Errorf("syncer: create export dir: %w", err))
	}

	total := len(files)
	e.line("> Descargando %d artículos...", total)
	for i, name := range files {
		e.line("  [%d/%d] %s", i+1, total, name)

		res.LastStep = StepTransferring
		content, err := tr.ReadText(ctx, o.remoteFile(name))
		if err != nil {
			return res, wrapExecuteError(err)
		}
		if content == "" {
			res.Failed++
			res.note("%s: empty download", name)
			e.progress(i+1, total)
			continue
		}

		res.LastStep = StepExtracting
		art, err := o.extractor.FromPage(content, name)
		if err != nil {
			res.Failed++
			res.note("%s: %v", name, err)
			e.progress(i+1, total)
			continue
		}

		doc, err := markdown.WriteDocument(art)
		if err != nil {
			res.Failed++
			res.note("%s: %v", name, err)
			e.progress(i+1, total)
			continue
		}

		local := o.exportFS.Join(destDir, art.ID+".md")
		if err := util.WriteFile(o.exportFS, local, []byte(doc), 0o644); err != nil {
			return res, wrapExecuteError(fmt.Errorf("syncer: write %s: %w", local, err))
		}
		res.Exported++
		e.line("        → Guardado: %s.md", art.ID)
		e.progress(i+1, total)
	}

	log.Info("export finished", "exported", res.Exported, "failed", res.Failed)
	res.LastStep = StepDone
	return res, nil
}

func (o *Orchestrator) connect(ctx context.Context, e *emitter) (interfaces.Transport, error) {
	tr, err := o.transport(transport.Config{
		Protocol: o.cfg.Server.Protocol,
		Host:     o.cfg.Server.Host,
		Port:     o.cfg.Server.Port,
		Username: o.cfg.Server.Username,
		Password: o.cfg.Server.Password,
		KeyFile:  o.cfg.Server.KeyFile,
		Logger:   o.provider,
	})
	if err != nil {
		return nil, wrapConfigError(err)
	}

	e.setStatus(fmt.Sprintf("Conectando %s...", strings.ToUpper(tr.Protocol())))
	e.line("> Conectando a %s...", o.cfg.Server.Host)
	if err := tr.Connect(ctx); err != nil {
		return nil, wrapExecuteError(err)
	}
	e.line("  ✓ Conexión establecida")
	return tr, nil
}

func (o *Orchestrator) close(tr interfaces.Transport, log interfaces.Logger) {
	if err := tr.Disconnect(); err != nil {
		log.Warn("disconnect failed", "error", err)
	}
}

// uploadIndex regenerates the listing page from every locally-published
// article and overwrites it remotely.
func (o *Orchestrator) uploadIndex(ctx context.Context, tr interfaces.Transport, e *emitter) error {
	arts, err := o.loadPublished(ctx)
	if err != nil {
		return wrapExecuteError(err)
	}
	page, err := o.renderer.IndexPage(arts)
	if err != nil {
		return wrapExecuteError(err)
	}

	e.line("> Actualizando %s...", indexFileName)
	if err := tr.WriteText(ctx, page, o.remoteFile(indexFileName)); err != nil {
		return wrapExecuteError(err)
	}
	return nil
}

// loadPublished returns the full records of every published article in store
// listing order.
func (o *Orchestrator) loadPublished(ctx context.Context) ([]*article.Article, error) {
	entries, err := o.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var arts []*article.Article
	for _, entry := range entries {
		if !entry.Published {
			continue
		}
		art, err := o.store.Get(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		if art != nil {
			arts = append(arts, art)
		}
	}
	return arts, nil
}

// listArticleFiles returns the remote article pages: .html files excluding
// the listing page and the page template.
func (o *Orchestrator) listArticleFiles(ctx context.Context, tr interfaces.Transport) ([]string, error) {
	names, err := tr.List(ctx, o.cfg.Server.RemotePath)
	if err != nil {
		return nil, wrapExecuteError(err)
	}

	var files []string
	for _, name := range names {
		if !strings.HasSuffix(name, pageExt) {
			continue
		}
		if name == indexFileName || name == templateFileName {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func (o *Orchestrator) remoteFile(name string) string {
	return path.Join(o.cfg.Server.RemotePath, name)
}
