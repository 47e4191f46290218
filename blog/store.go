package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jtushya/new-company-website/internal/cache"
	"github.com/jtushya/new-company-website/internal/metrics"
	"github.com/jtushya/new-company-website/markdown"
)

// Content file extensions, in lookup order.
const (
	PrimaryExt  = ".md"
	FallbackExt = ".mdx"
)

const defaultConcurrency = 8

// HTMLCache stores rendered post bodies keyed by slug and content hash.
type HTMLCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, html string) error
}

// Store reads posts from a directory of markdown files. All access is
// read-only; the directory is only changed out of band.
type Store struct {
	fsys        fs.FS
	converter   *markdown.Converter
	html        HTMLCache
	logger      zerolog.Logger
	concurrency int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for parse failures.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithHTMLCache shares rendered bodies through c.
func WithHTMLCache(c HTMLCache) StoreOption {
	return func(s *Store) { s.html = c }
}

// WithConcurrency bounds the number of files parsed at once by LoadAllMetadata.
func WithConcurrency(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewStore returns a Store reading from fsys, whose root is the content directory.
func NewStore(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fsys:        fsys,
		converter:   markdown.New(),
		logger:      zerolog.Nop(),
		concurrency: defaultConcurrency,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Slugs lists every post once, in file name order. A slug present with both
// extensions is reported once.
func (s *Store) Slugs() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("blog: read content dir: %w", err)
	}
	seen := make(map[string]bool, len(entries))
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := path.Ext(name)
		if ext != PrimaryExt && ext != FallbackExt {
			continue
		}
		slug := strings.TrimSuffix(name, ext)
		if !validSlug(slug) || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

// LoadPost loads one post with its HTML body. Missing and unparseable posts
// both yield ErrNotFound; parse failures are logged.
func (s *Store) LoadPost(ctx context.Context, slug string) (Post, error) {
	raw, err := s.readSource(slug)
	if err != nil {
		return Post{}, err
	}
	meta, body, err := parseDocument(slug, raw)
	if err != nil {
		s.reportParseError("post", err)
		return Post{}, ErrNotFound
	}
	html, err := s.render(ctx, slug, body)
	if err != nil {
		s.reportParseError("markdown", &ParseError{Slug: slug, Err: err})
		return Post{}, ErrNotFound
	}
	return Post{Metadata: meta, Markdown: body, HTML: html}, nil
}

// LoadMetadata loads the frontmatter-derived fields of one post without
// converting its body.
func (s *Store) LoadMetadata(slug string) (Metadata, error) {
	raw, err := s.readSource(slug)
	if err != nil {
		return Metadata{}, err
	}
	meta, _, err := parseDocument(slug, raw)
	if err != nil {
		s.reportParseError("metadata", err)
		return Metadata{}, ErrNotFound
	}
	return meta, nil
}

// LoadAllMetadata loads every parseable post, newest first. Files are parsed
// concurrently; entries that fail are dropped after being logged. An error is
// returned only when the content directory cannot be listed.
func (s *Store) LoadAllMetadata() ([]Metadata, error) {
	slugs, err := s.Slugs()
	if err != nil {
		s.logger.Error().Err(err).Msg("list content")
		return nil, err
	}

	results := make([]*Metadata, len(slugs))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.concurrency)
	for i, slug := range slugs {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int, slug string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			meta, err := s.LoadMetadata(slug)
			if err != nil {
				return
			}
			results[i] = &meta
		}(i, slug)
	}
	wg.Wait()

	posts := make([]Metadata, 0, len(slugs))
	for _, m := range results {
		if m != nil {
			posts = append(posts, *m)
		}
	}
	SortByDate(posts)
	return posts, nil
}

// Check parses and renders every post and returns the failures, for use by
// deploy-time validation.
func (s *Store) Check(ctx context.Context) (int, []error) {
	slugs, err := s.Slugs()
	if err != nil {
		return 0, []error{err}
	}
	var (
		ok   int
		errs []error
	)
	for _, slug := range slugs {
		raw, err := s.readSource(slug)
		if err != nil {
			errs = append(errs, &ParseError{Slug: slug, Err: err})
			continue
		}
		_, body, err := parseDocument(slug, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s.converter.Convert([]byte(body)); err != nil {
			errs = append(errs, &ParseError{Slug: slug, Err: err})
			continue
		}
		ok++
	}
	return ok, errs
}

// SortByDate orders posts newest first, keeping the input order for equal dates.
func SortByDate(posts []Metadata) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}

func (s *Store) readSource(slug string) ([]byte, error) {
	if !validSlug(slug) {
		return nil, ErrNotFound
	}
	for _, ext := range []string{PrimaryExt, FallbackExt} {
		raw, err := fs.ReadFile(s.fsys, slug+ext)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			s.reportParseError("read", &ParseError{Slug: slug, Err: err})
			return nil, ErrNotFound
		}
	}
	return nil, ErrNotFound
}

func (s *Store) render(ctx context.Context, slug, body string) (string, error) {
	if s.html == nil {
		return s.converter.Convert([]byte(body))
	}
	key := cache.Key(slug, []byte(body))
	if html, ok, err := s.html.Get(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("html cache lookup failed")
	} else if ok {
		metrics.HTMLCacheLookups.WithLabelValues("hit").Inc()
		return html, nil
	}
	metrics.HTMLCacheLookups.WithLabelValues("miss").Inc()

	html, err := s.converter.Convert([]byte(body))
	if err != nil {
		return "", err
	}
	if err := s.html.Set(ctx, key, html); err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("html cache store failed")
	}
	return html, nil
}

func (s *Store) reportParseError(stage string, err error) {
	metrics.ContentParseErrors.WithLabelValues(stage).Inc()
	ev := s.logger.Warn().Err(err).Str("stage", stage)
	var pe *ParseError
	if errors.As(err, &pe) {
		ev = ev.Str("slug", pe.Slug)
	}
	ev.Msg("skipping unreadable post")
}

// validSlug rejects anything that could name a file outside the content root.
func validSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	if strings.ContainsAny(slug, `/\`) {
		return false
	}
	return fs.ValidPath(slug)
}
