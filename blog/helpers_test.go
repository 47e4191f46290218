package blog

import (
	"fmt"
	"strings"
	"testing/fstest"
	"time"
)

// doc builds a content file with the given frontmatter lines and body.
func doc(frontmatter string, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + strings.TrimSpace(frontmatter) + "\n---\n" + body)}
}

func simplePost(title, date string, tags ...string) *fstest.MapFile {
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	fm := fmt.Sprintf("title: %q\ndate: %s\nauthor: Planckk Team\ntags: [%s]\nexcerpt: About %s", title, date, strings.Join(quoted, ", "), title)
	return doc(fm, "Some body text for "+title+".\n")
}

// scenarioFS holds the three-post collection used across tests:
// p1 (2024-03-01, seo+web), p2 (2024-01-01, seo), p3 (2024-02-01, web).
func scenarioFS() fstest.MapFS {
	return fstest.MapFS{
		"p1.md": simplePost("Post One", "2024-03-01", "seo", "web"),
		"p2.md": simplePost("Post Two", "2024-01-01", "seo"),
		"p3.md": simplePost("Post Three", "2024-02-01", "web"),
	}
}

func slugsOf(posts []Metadata) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

// staticSource serves a fixed collection and counts loads. A non-nil err is
// returned instead of the posts.
type staticSource struct {
	posts []Metadata
	err   error
	loads int
}

func (s *staticSource) LoadAllMetadata() ([]Metadata, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.posts, nil
}

func meta(slug string, day int, tags ...string) Metadata {
	return Metadata{
		Slug:        slug,
		Title:       "Title " + slug,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -day),
		Tags:        tags,
		ReadTime:    1,
	}
}
