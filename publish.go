// Package publish is the article publishing runtime: a local article store,
// a bidirectional article/HTML transcoder, and FTP/SFTP sync workflows that
// keep a remote site in step with the local corpus.
package publish

import (
	"context"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/extract"
	"github.com/goliatone/go-publish/internal/logging/console"
	"github.com/goliatone/go-publish/internal/logging/gologger"
	"github.com/goliatone/go-publish/internal/markdown"
	"github.com/goliatone/go-publish/internal/render"
	"github.com/goliatone/go-publish/internal/store"
	"github.com/goliatone/go-publish/internal/syncer"
	"github.com/goliatone/go-publish/internal/transport"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// Article exports the structured content unit.
type Article = article.Article

// IndexEntry exports the listing projection kept for each article.
type IndexEntry = article.IndexEntry

// Store exports the local article store.
type Store = store.Store

// Draft exports the creation payload consumed by Store.Create.
type Draft = store.Draft

// Patch exports the partial-update payload consumed by Store.Update.
type Patch = store.Patch

// Result exports the workflow run summary.
type Result = syncer.Result

// Runner exports the background workflow handle.
type Runner = syncer.Runner

// TransportFactory exports the transport constructor hook used by tests.
type TransportFactory = syncer.TransportFactory

// ProgressEvent exports the workflow narration event.
type ProgressEvent = interfaces.ProgressEvent

// ProgressSink exports the progress consumer contract.
type ProgressSink = interfaces.ProgressSink

// ProgressFunc adapts a function to the ProgressSink contract.
type ProgressFunc = interfaces.ProgressFunc

// LoggerConfig exports the go-logger adapter options.
type LoggerConfig = gologger.Config

// Categories returns the fixed category set in display order.
func Categories() []string {
	return article.Categories()
}

// DeriveID returns the URL-safe identifier derived from a title.
func DeriveID(title string) (string, error) {
	return article.DeriveID(title)
}

// NewLoggerProvider builds a structured logger provider for WithLogger.
func NewLoggerProvider(cfg LoggerConfig) (interfaces.LoggerProvider, error) {
	return gologger.NewProvider(cfg)
}

// NewConsoleLogger builds a plain console logger provider for WithLogger,
// writing human-readable lines to stdout.
func NewConsoleLogger() interfaces.LoggerProvider {
	return console.NewProvider(console.Options{})
}

type options struct {
	fs        billy.Filesystem
	logger    interfaces.LoggerProvider
	transport TransportFactory
	clock     func() time.Time
}

// Option customizes module construction.
type Option func(*options)

// WithLogger attaches a structured logger provider to every component.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.logger = provider
	}
}

// WithFilesystem overrides the filesystem backing the store and exports.
// Tests use an in-memory filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithTransport overrides the transport factory. Tests use a fake.
func WithTransport(factory TransportFactory) Option {
	return func(o *options) {
		o.transport = factory
	}
}

// WithClock pins the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// Module is the top level publishing runtime facade.
type Module struct {
	cfg          Config
	store        *store.Store
	renderer     *render.Renderer
	extractor    *extract.Extractor
	orchestrator *syncer.Orchestrator
}

// New constructs the publishing runtime from configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	o := options{
		fs:    osfs.New("."),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.New(o.fs, cfg.Local.ArticlesPath,
		store.WithAuthor(cfg.Site.Author),
		store.WithClock(o.clock),
		store.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	renderer := render.New(render.Options{
		SiteName:   cfg.Site.Name,
		SiteAuthor: cfg.Site.Author,
		TimeFunc:   o.clock,
		Logger:     o.logger,
	})
	extractor := extract.New(o.logger)

	orchestrator, err := syncer.New(syncer.Options{
		Config:    cfg,
		Store:     st,
		Renderer:  renderer,
		Extractor: extractor,
		Transport: o.transport,
		ExportFS:  o.fs,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Module{
		cfg:          cfg,
		store:        st,
		renderer:     renderer,
		extractor:    extractor,
		orchestrator: orchestrator,
	}, nil
}

// Store returns the local article store.
func (m *Module) Store() *Store {
	return m.store
}

// Preview renders an article body as neutral HTML for local display.
func (m *Module) Preview(art *Article) (string, error) {
	return m.renderer.Preview(art)
}

// RenderPage renders the full uploadable page for an article, embedded
// snapshot included.
func (m *Module) RenderPage(art *Article) (string, error) {
	return m.renderer.Page(art)
}

// ExtractPage recovers an article from page HTML, lossless snapshot first
// with the legacy scraper as fallback.
func (m *Module) ExtractPage(page, filename string) (*Article, error) {
	return m.extractor.FromPage(page, filename)
}

// WriteMarkdown serializes an article as a front-matter markdown document.
func (m *Module) WriteMarkdown(art *Article) (string, error) {
	return markdown.WriteDocument(art)
}

// ReadMarkdown parses a front-matter markdown document into an article draft.
func (m *Module) ReadMarkdown(doc string) (*Article, error) {
	return markdown.ReadDocument(doc)
}

// WebURL returns the public address of an uploaded file, derived from the
// server configuration. An empty filename yields the site root.
func (m *Module) WebURL(filename string) string {
	return transport.WebURL(m.cfg.Server.Host, m.cfg.Server.RemotePath, filename)
}

// PublishArticle uploads one article and the regenerated listing page.
func (m *Module) PublishArticle(ctx context.Context, id string, sink ProgressSink) (*Result, error) {
	return m.orchestrator.PublishArticle(ctx, id, sink)
}

// PublishAll uploads every locally-published article and the listing page.
func (m *Module) PublishAll(ctx context.Context, sink ProgressSink) (*Result, error) {
	return m.orchestrator.PublishAll(ctx, sink)
}

// ImportRemote pulls remote articles into the store without overwriting
// local records.
func (m *Module) ImportRemote(ctx context.Context, sink ProgressSink) (*Result, error) {
	return m.orchestrator.ImportRemote(ctx, sink)
}

// ExportMarkdown downloads remote articles as markdown documents under
// destDir, or the configured export path when destDir is empty.
func (m *Module) ExportMarkdown(ctx context.Context, destDir string, sink ProgressSink) (*Result, error) {
	return m.orchestrator.ExportMarkdown(ctx, destDir, sink)
}

// PublishAllAsync runs PublishAll in the background, streaming progress
// through the returned runner.
func (m *Module) PublishAllAsync(ctx context.Context) *Runner {
	return syncer.Run(func(sink ProgressSink) (*Result, error) {
		return m.orchestrator.PublishAll(ctx, sink)
	})
}

// ImportRemoteAsync runs ImportRemote in the background.
func (m *Module) ImportRemoteAsync(ctx context.Context) *Runner {
	return syncer.Run(func(sink ProgressSink) (*Result, error) {
		return m.orchestrator.ImportRemote(ctx, sink)
	})
}
