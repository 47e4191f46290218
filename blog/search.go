package blog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrIndexBuild is returned when the search index cannot be built from a
// collection. Searches then fall back to substring matching.
var ErrIndexBuild = errors.New("blog: search index build failed")

// Field weights for ranked search.
const (
	boostTitle   = 10
	boostExcerpt = 5
	boostTags    = 3
	boostAuthor  = 1
)

// Index is an inverted index over post metadata. It is immutable once built
// and safe for concurrent searches.
type Index struct {
	docs     []Metadata
	postings map[string]map[int]float64
	terms    []string
}

// BuildIndex indexes the title, excerpt, tags and author of every post.
// Slugs must be present and unique.
func BuildIndex(posts []Metadata) (*Index, error) {
	ix := &Index{
		docs:     posts,
		postings: make(map[string]map[int]float64),
	}
	seen := make(map[string]bool, len(posts))
	for doc, p := range posts {
		if p.Slug == "" {
			return nil, fmt.Errorf("%w: post %d has no slug", ErrIndexBuild, doc)
		}
		if seen[p.Slug] {
			return nil, fmt.Errorf("%w: duplicate slug %q", ErrIndexBuild, p.Slug)
		}
		seen[p.Slug] = true

		ix.add(doc, p.Title, boostTitle)
		ix.add(doc, p.Excerpt, boostExcerpt)
		ix.add(doc, strings.Join(p.Tags, " "), boostTags)
		ix.add(doc, p.Author, boostAuthor)
	}
	ix.terms = make([]string, 0, len(ix.postings))
	for term := range ix.postings {
		ix.terms = append(ix.terms, term)
	}
	sort.Strings(ix.terms)
	return ix, nil
}

func (ix *Index) add(doc int, text string, boost float64) {
	for _, term := range Tokenize(text) {
		docs := ix.postings[term]
		if docs == nil {
			docs = make(map[int]float64)
			ix.postings[term] = docs
		}
		docs[doc] += boost
	}
}

// Search ranks the posts matching any query term. Exact term matches score
// the full field weight and prefix matches half of it; equal scores keep
// collection order. A blank query returns every post in collection order.
func (ix *Index) Search(query string) []Metadata {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return ix.docs
	}

	scores := make(map[int]float64)
	for _, term := range terms {
		for doc, w := range ix.postings[term] {
			scores[doc] += w
		}
		for i := sort.SearchStrings(ix.terms, term); i < len(ix.terms) && strings.HasPrefix(ix.terms[i], term); i++ {
			if ix.terms[i] == term {
				continue
			}
			for doc, w := range ix.postings[ix.terms[i]] {
				scores[doc] += w / 2
			}
		}
	}

	hits := make([]int, 0, len(scores))
	for doc := range scores {
		hits = append(hits, doc)
	}
	sort.Slice(hits, func(i, j int) bool {
		si, sj := scores[hits[i]], scores[hits[j]]
		if si != sj {
			return si > sj
		}
		return hits[i] < hits[j]
	})

	results := make([]Metadata, len(hits))
	for i, doc := range hits {
		results[i] = ix.docs[doc]
	}
	return results
}

// SubstringSearch keeps the posts whose title, excerpt, author and tags
// together contain every whitespace separated query token, ignoring case.
// Results are unranked, in collection order.
func SubstringSearch(posts []Metadata, query string) []Metadata {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return posts
	}
	matches := []Metadata{}
	for _, p := range posts {
		haystack := strings.ToLower(strings.Join([]string{p.Title, p.Excerpt, p.Author, strings.Join(p.Tags, " ")}, " "))
		all := true
		for _, tok := range tokens {
			if !strings.Contains(haystack, tok) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, p)
		}
	}
	return matches
}

// Tokenize lowercases s, splits it on whitespace and hyphens and trims
// punctuation from both ends of each token.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
