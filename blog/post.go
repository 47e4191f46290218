// Package blog loads markdown posts from a content store and serves the
// listing, search, filtering, pagination and related-post views over them.
package blog

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 200

// LayoutCustom selects the alternate post template.
const LayoutCustom = "CustomLayout"

// ErrNotFound is returned when a post is absent or its content cannot be parsed.
var ErrNotFound = errors.New("blog: post not found")

// ParseError describes a content file that exists but could not be parsed.
// It is logged and then reported to callers as ErrNotFound.
type ParseError struct {
	Slug string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("blog: parse %q: %v", e.Slug, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Metadata is everything about a post except its body. Listings only ever
// deal in Metadata.
type Metadata struct {
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Date            string    `json:"date"`
	PublishedAt     time.Time `json:"-"`
	Author          string    `json:"author"`
	Tags            []string  `json:"tags"`
	Excerpt         string    `json:"excerpt"`
	Image           string    `json:"image,omitempty"`
	Layout          string    `json:"layout,omitempty"`
	MetaTitle       string    `json:"metaTitle,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	ReadTime        int       `json:"readTime"`
	Featured        bool      `json:"featured"`
}

// Post is a fully loaded post with its body converted to HTML.
type Post struct {
	Metadata
	Markdown string `json:"-"`
	HTML     string `json:"content"`
}

// SEOTitle returns the meta title override, or the post title.
func (m Metadata) SEOTitle() string {
	if m.MetaTitle != "" {
		return m.MetaTitle
	}
	return m.Title
}

// SEODescription returns the meta description override, or the excerpt.
func (m Metadata) SEODescription() string {
	if m.MetaDescription != "" {
		return m.MetaDescription
	}
	return m.Excerpt
}

// HasTag reports whether the post carries tag, ignoring case.
func (m Metadata) HasTag(tag string) bool {
	want := normalizeTag(tag)
	for _, t := range m.Tags {
		if normalizeTag(t) == want {
			return true
		}
	}
	return false
}

// ReadTime estimates minutes to read body, never less than one.
func ReadTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
