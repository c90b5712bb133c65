// Package store persists article records on a billy filesystem: one JSON
// record per article plus a single index file holding the listing
// projections. The index file is the source of truth for List; every
// mutating call rewrites the touched files completely before returning.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

const indexFileName = "index.json"

// Draft carries the author-supplied fields for a new article. The identifier
// is derived from the title at create time and never recomputed afterwards.
type Draft struct {
	Title     string
	Subtitle  string
	Category  string
	Content   string
	Tags      []string
	Published bool
}

// Patch carries partial updates. Nil fields are left untouched; the
// identifier and creation stamp can never change.
type Patch struct {
	Title     *string
	Subtitle  *string
	Category  *string
	Content   *string
	Tags      *[]string
	Published *bool
}

// ImportOutcome reports what UpsertImported did with a remote article.
type ImportOutcome int

const (
	ImportSkipped ImportOutcome = iota
	ImportCreated
	ImportUpdated
)

func (o ImportOutcome) String() string {
	switch o {
	case ImportCreated:
		return "created"
	case ImportUpdated:
		return "updated"
	default:
		return "skipped"
	}
}

// Option customizes store construction.
type Option func(*Store)

// WithClock overrides the timestamp source. Tests use this to pin Created
// and Modified stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAuthor sets the author stamped onto newly created articles.
func WithAuthor(author string) Option {
	return func(s *Store) {
		s.author = author
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(s *Store) {
		s.logger = logging.StoreLogger(provider)
	}
}

// Store owns the local article corpus. It is not safe for concurrent
// writers; all mutating calls are expected to originate from one control
// flow at a time.
type Store struct {
	fs     billy.Filesystem
	dir    string
	author string
	clock  func() time.Time
	logger interfaces.Logger
	index  indexFile
}

type indexFile struct {
	Articles []article.IndexEntry `json:"articles"`
}

// New opens (or initializes) a store rooted at dir on the given filesystem.
func New(fsys billy.Filesystem, dir string, opts ...Option) (*Store, error) {
	s := &Store{
		fs:     fsys,
		dir:    dir,
		author: "Admin",
		clock:  time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create articles dir: %w", err)
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create derives the identifier, stamps timestamps, and persists the record
// and its index entry. Colliding identifiers are rejected with a
// *article.DuplicateIDError; two distinct titles normalizing to the same
// slug is a caller problem to resolve, never a silent overwrite.
func (s *Store) Create(ctx context.Context, draft Draft) (*article.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := article.DeriveID(draft.Title)
	if err != nil {
		return nil, err
	}
	if s.lookup(id) >= 0 {
		return nil, &article.DuplicateIDError{ID: id, Title: draft.Title}
	}

	now := article.Stamp(s.clock())
	art := &article.Article{
		ID:        id,
		Title:     draft.Title,
		Subtitle:  draft.Subtitle,
		Category:  draft.Category,
		Content:   draft.Content,
		Tags:      article.NormalizeTags(draft.Tags),
		Author:    s.author,
		Created:   now,
		Modified:  now,
		Published: draft.Published,
	}

	if err := s.writeRecord(art); err != nil {
		return nil, err
	}
	s.index.Articles = append(s.index.Articles, art.Project())
	if err := s.writeIndex(); err != nil {
		return nil, err
	}

	s.logger.Info("article created", "id", id, "category", art.Category)
	return art.Clone(), nil
}

// Update merges the patch over the stored record, advances Modified, and
// rewrites the index projection.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*article.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	art, err := s.readRecord(id)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, &article.NotFoundError{ID: id}
	}

	if patch.Title != nil {
		art.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		art.Subtitle = *patch.Subtitle
	}
	if patch.Category != nil {
		art.Category = *patch.Category
	}
	if patch.Content != nil {
		art.Content = *patch.Content
	}
	if patch.Tags != nil {
		art.Tags = article.NormalizeTags(*patch.Tags)
	}
	if patch.Published != nil {
		art.Published = *patch.Published
	}
	art.Modified = article.Stamp(s.clock())

	if err := s.writeRecord(art); err != nil {
		return nil, err
	}
	if err := s.project(art); err != nil {
		return nil, err
	}

	s.logger.Info("article updated", "id", id)
	return art.Clone(), nil
}

// Get returns the full record, or (nil, nil) when the identifier is unknown.
// A miss is a normal listing-time query, not an error.
func (s *Store) Get(ctx context.Context, id string) (*article.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readRecord(id)
}

// Delete removes the record file and its index entry. Deleting an unknown
// identifier is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove record %s: %w", id, err)
	}

	if pos := s.lookup(id); pos >= 0 {
		s.index.Articles = append(s.index.Articles[:pos], s.index.Articles[pos+1:]...)
		if err := s.writeIndex(); err != nil {
			return err
		}
	}

	s.logger.Info("article deleted", "id", id)
	return nil
}

// List returns the index projections in persisted insertion order. Sorting
// by recency is a caller concern.
func (s *Store) List(ctx context.Context) ([]article.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]article.IndexEntry(nil), s.index.Articles...), nil
}

// UpsertImported writes an article recovered from a remote page. With
// overwrite disabled an existing local record is left completely untouched
// and the call reports ImportSkipped, so local edits are never clobbered.
func (s *Store) UpsertImported(ctx context.Context, art *article.Article, overwrite bool) (ImportOutcome, error) {
	if err := ctx.Err(); err != nil {
		return ImportSkipped, err
	}
	if art == nil || art.ID == "" {
		return ImportSkipped, article.ErrIDEmpty
	}

	existing := s.lookup(art.ID) >= 0

	if existing && !overwrite {
		s.logger.Debug("import skipped, record exists", "id", art.ID)
		return ImportSkipped, nil
	}

	clone := art.Clone()
	if clone.Tags == nil {
		clone.Tags = []string{}
	}
	now := article.Stamp(s.clock())
	if clone.Created == "" {
		clone.Created = now
	}
	if clone.Modified == "" {
		clone.Modified = clone.Created
	}

	if err := s.writeRecord(clone); err != nil {
		return ImportSkipped, err
	}

	if existing {
		if err := s.project(clone); err != nil {
			return ImportSkipped, err
		}
		s.logger.Info("imported article replaced local record", "id", clone.ID)
		return ImportUpdated, nil
	}

	s.index.Articles = append(s.index.Articles, clone.Project())
	if err := s.writeIndex(); err != nil {
		return ImportSkipped, err
	}
	s.logger.Info("imported article created", "id", clone.ID)
	return ImportCreated, nil
}

func (s *Store) lookup(id string) int {
	for i, entry := range s.index.Articles {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// project rewrites the index entry for the article, preserving its position.
func (s *Store) project(art *article.Article) error {
	pos := s.lookup(art.ID)
	if pos < 0 {
		s.index.Articles = append(s.index.Articles, art.Project())
	} else {
		s.index.Articles[pos] = art.Project()
	}
	return s.writeIndex()
}

func (s *Store) recordPath(id string) string {
	return s.fs.Join(s.dir, id+".json")
}

func (s *Store) readRecord(id string) (*article.Article, error) {
	data, err := util.ReadFile(s.fs, s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read record %s: %w", id, err)
	}

	art := &article.Article{}
	if err := json.Unmarshal(data, art); err != nil {
		return nil, fmt.Errorf("store: decode record %s: %w", id, err)
	}
	return art, nil
}

func (s *Store) writeRecord(art *article.Article) error {
	data, err := json.MarshalIndent(art, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode record %s: %w", art.ID, err)
	}
	if err := util.WriteFile(s.fs, s.recordPath(art.ID), data, 0o644); err != nil {
		return fmt.Errorf("store: write record %s: %w", art.ID, err)
	}
	return nil
}

func (s *Store) loadIndex() error {
	data, err := util.ReadFile(s.fs, s.fs.Join(s.dir, indexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			s.index = indexFile{Articles: []article.IndexEntry{}}
			return nil
		}
		return fmt.Errorf("store: read index: %w", err)
	}

	index := indexFile{}
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("store: decode index: %w", err)
	}
	if index.Articles == nil {
		index.Articles = []article.IndexEntry{}
	}
	s.index = index
	return nil
}

func (s *Store) writeIndex() error {
	data, err := json.MarshalIndent(s.index, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode index: %w", err)
	}
	if err := util.WriteFile(s.fs, s.fs.Join(s.dir, indexFileName), data, 0o644); err != nil {
		return fmt.Errorf("store: write index: %w", err)
	}
	return nil
}
