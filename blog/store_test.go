package blog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
)

func TestLoadPost(t *testing.T) {
	fsys := fstest.MapFS{
		"hello-world.md": doc(`
title: Hello World
date: 2024-05-10
author: Jane Doe
tags: [Go, web]
excerpt: A first post
image: /images/hello.webp
metaTitle: Hello SEO
`, "# Hello\n\nThis has **bold** text and a table:\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"),
	}
	s := NewStore(fsys)

	post, err := s.LoadPost(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", post.Slug, "hello-world")
	}
	if post.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", post.Title, "Hello World")
	}
	if post.Date != "2024-05-10" {
		t.Errorf("Date = %q, want %q", post.Date, "2024-05-10")
	}
	if post.PublishedAt.IsZero() || post.PublishedAt.Year() != 2024 {
		t.Errorf("PublishedAt = %v", post.PublishedAt)
	}
	if !reflect.DeepEqual(post.Tags, []string{"Go", "web"}) {
		t.Errorf("Tags = %v", post.Tags)
	}
	if post.ReadTime != 1 {
		t.Errorf("ReadTime = %d, want 1", post.ReadTime)
	}
	if post.Featured {
		t.Error("Featured should default to false")
	}
	if !strings.Contains(post.HTML, "<strong>bold</strong>") || !strings.Contains(post.HTML, "<table>") {
		t.Errorf("HTML not converted: %q", post.HTML)
	}
	if post.SEOTitle() != "Hello SEO" {
		t.Errorf("SEOTitle = %q", post.SEOTitle())
	}
	if post.SEODescription() != "A first post" {
		t.Errorf("SEODescription = %q", post.SEODescription())
	}
}

func TestLoadPostReadTime(t *testing.T) {
	words := strings.Repeat("word ", 401)
	fsys := fstest.MapFS{
		"long.md":     doc("title: Long\ndate: 2024-01-01", words),
		"override.md": doc("title: Override\ndate: 2024-01-01\nreadTime: 12", "short"),
		"empty.md":    doc("title: Empty\ndate: 2024-01-01", ""),
	}
	s := NewStore(fsys)
	tests := []struct {
		slug string
		want int
	}{
		{"long", 3},
		{"override", 12},
		{"empty", 1},
	}
	for _, tt := range tests {
		post, err := s.LoadPost(context.Background(), tt.slug)
		if err != nil {
			t.Fatalf("LoadPost(%q) failed: %v", tt.slug, err)
		}
		if post.ReadTime != tt.want {
			t.Errorf("LoadPost(%q).ReadTime = %d, want %d", tt.slug, post.ReadTime, tt.want)
		}
	}
}

func TestLoadPostExtensions(t *testing.T) {
	fsys := fstest.MapFS{
		"both.md":   doc("title: From MD\ndate: 2024-01-01", "md"),
		"both.mdx":  doc("title: From MDX\ndate: 2024-01-01", "mdx"),
		"only.mdx":  doc("title: Only MDX\ndate: 2024-01-01", "mdx"),
		"notes.txt": {Data: []byte("ignored")},
	}
	s := NewStore(fsys)

	post, err := s.LoadPost(context.Background(), "both")
	if err != nil {
		t.Fatalf("LoadPost(both) failed: %v", err)
	}
	if post.Title != "From MD" {
		t.Errorf("primary extension should win, got %q", post.Title)
	}
	post, err = s.LoadPost(context.Background(), "only")
	if err != nil {
		t.Fatalf("LoadPost(only) failed: %v", err)
	}
	if post.Title != "Only MDX" {
		t.Errorf("fallback extension not used, got %q", post.Title)
	}

	slugs, err := s.Slugs()
	if err != nil {
		t.Fatalf("Slugs failed: %v", err)
	}
	if !reflect.DeepEqual(slugs, []string{"both", "only"}) {
		t.Errorf("Slugs = %v, want [both only]", slugs)
	}
}

func TestLoadPostNotFound(t *testing.T) {
	fsys := fstest.MapFS{
		"no-frontmatter.md": {Data: []byte("# Just markdown\n")},
		"bad-yaml.md":       doc("title: [unclosed\ndate: 2024-01-01", "body"),
		"no-title.md":       doc("date: 2024-01-01", "body"),
		"no-date.md":        doc("title: Dateless", "body"),
		"bad-date.md":       doc("title: Bad date\ndate: someday", "body"),
		"bad-tags.md":       doc("title: Bad tags\ndate: 2024-01-01\ntags:\n  a: b", "body"),
		"secret.md":         doc("title: Secret\ndate: 2024-01-01", "body"),
	}
	s := NewStore(fsys)
	for _, slug := range []string{"missing", "no-frontmatter", "bad-yaml", "no-title", "no-date", "bad-date", "bad-tags", "../secret", "", ".hidden", "a/b"} {
		_, err := s.LoadPost(context.Background(), slug)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadPost(%q) error = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestLoadPostIsIdempotent(t *testing.T) {
	s := NewStore(scenarioFS())
	first, err := s.LoadPost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	second, err := s.LoadPost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("LoadPost not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestFrontmatterTagForms(t *testing.T) {
	fsys := fstest.MapFS{
		"list.md":   doc("title: List\ndate: 2024-01-01\ntags:\n  - seo\n  - Web Design", "x"),
		"csv.md":    doc("title: CSV\ndate: 2024-01-01\ntags: seo, marketing ,", "x"),
		"none.md":   doc("title: None\ndate: 2024-01-01", "x"),
		"rfc.md":    doc("title: RFC\ndate: 2024-01-01T09:30:00Z", "x"),
		"spaced.md": doc("title: Spaced\ndate: 2024-01-01 09:30", "x"),
	}
	s := NewStore(fsys)
	tests := []struct {
		slug string
		want []string
	}{
		{"list", []string{"seo", "Web Design"}},
		{"csv", []string{"seo", "marketing"}},
		{"none", []string{}},
		{"rfc", []string{}},
		{"spaced", []string{}},
	}
	for _, tt := range tests {
		m, err := s.LoadMetadata(tt.slug)
		if err != nil {
			t.Fatalf("LoadMetadata(%q) failed: %v", tt.slug, err)
		}
		if !reflect.DeepEqual(m.Tags, tt.want) {
			t.Errorf("LoadMetadata(%q).Tags = %#v, want %#v", tt.slug, m.Tags, tt.want)
		}
	}
}

func TestLoadAllMetadataSortedAndSkipsBroken(t *testing.T) {
	fsys := scenarioFS()
	fsys["broken.md"] = doc("title: [oops", "body")
	fsys["undated.md"] = doc("title: Undated", "body")
	fsys["same-day.md"] = simplePost("Same Day", "2024-02-01", "web")
	s := NewStore(fsys, WithConcurrency(2))

	posts, err := s.LoadAllMetadata()
	if err != nil {
		t.Fatal(err)
	}
	got := slugsOf(posts)
	want := []string{"p1", "p3", "same-day", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadAllMetadata = %v, want %v", got, want)
	}
	for i := 1; i < len(posts); i++ {
		if posts[i-1].PublishedAt.Before(posts[i].PublishedAt) {
			t.Errorf("posts not sorted by date descending at %d", i)
		}
	}
}

func TestLoadAllMetadataEmptyDir(t *testing.T) {
	s := NewStore(fstest.MapFS{})
	posts, err := s.LoadAllMetadata()
	if err != nil || len(posts) != 0 {
		t.Errorf("LoadAllMetadata = %d posts, %v; want none, nil", len(posts), err)
	}
}

func TestLoadAllMetadataMissingDir(t *testing.T) {
	s := NewStore(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	if _, err := s.LoadAllMetadata(); err == nil {
		t.Error("expected an error for a missing content directory")
	}
}

func TestCheckReportsParseErrors(t *testing.T) {
	fsys := scenarioFS()
	fsys["broken.md"] = doc("title: Broken", "body")
	s := NewStore(fsys)
	ok, errs := s.Check(context.Background())
	if ok != 3 {
		t.Errorf("ok = %d, want 3", ok)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one error", errs)
	}
	var pe *ParseError
	if !errors.As(errs[0], &pe) || pe.Slug != "broken" {
		t.Errorf("error = %v, want ParseError for broken", errs[0])
	}
}

type memoryHTMLCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
}

func (m *memoryHTMLCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryHTMLCache) Set(_ context.Context, key, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = html
	return nil
}

func TestLoadPostUsesHTMLCache(t *testing.T) {
	c := &memoryHTMLCache{data: map[string]string{}}
	s := NewStore(scenarioFS(), WithHTMLCache(c))

	first, err := s.LoadPost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if len(c.data) != 1 {
		t.Fatalf("expected rendered body to be cached, cache has %d entries", len(c.data))
	}
	for k := range c.data {
		c.data[k] = "<p>cached</p>"
	}
	second, err := s.LoadPost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if second.HTML != "<p>cached</p>" {
		t.Errorf("HTML = %q, want cached value", second.HTML)
	}
	if first.HTML == second.HTML {
		t.Error("first load should have rendered, not read the cache")
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"", 1},
		{"one", 1},
		{strings.Repeat("w ", 200), 1},
		{strings.Repeat("w ", 201), 2},
		{"tabs\tand\nnewlines   count", 1},
	}
	for _, tt := range tests {
		if got := ReadTime(tt.body); got != tt.want {
			t.Errorf("ReadTime(%d words) = %d, want %d", len(strings.Fields(tt.body)), got, tt.want)
		}
	}
}
