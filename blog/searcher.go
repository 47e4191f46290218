package blog

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jtushya/new-company-website/internal/metrics"
)

// featuredLimit caps the featured strip shown above the first page of an
// unfiltered listing.
const featuredLimit = 3

// Searcher answers search and listing queries over a Collection. The index is
// built lazily on the first search after each collection reload.
type Searcher struct {
	collection *Collection
	logger     zerolog.Logger

	mu       sync.Mutex
	index    *Index
	indexErr error
	gen      uint64
	built    bool
}

// NewSearcher creates a Searcher over c.
func NewSearcher(c *Collection, logger zerolog.Logger) *Searcher {
	return &Searcher{collection: c, logger: logger}
}

func (s *Searcher) indexFor(posts []Metadata, gen uint64) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built || s.gen != gen {
		s.index, s.indexErr = BuildIndex(posts)
		s.gen = gen
		s.built = true
		if s.indexErr != nil {
			s.logger.Warn().Err(s.indexErr).Msg("search index unavailable, using substring search")
		}
	}
	return s.index, s.indexErr
}

// Search returns the posts matching query, best match first. A blank query
// returns the whole collection; a query with no searchable words, such as
// "!!!", matches nothing.
func (s *Searcher) Search(query string) []Metadata {
	posts, _, gen := s.collection.snapshot()
	if strings.TrimSpace(query) == "" {
		return posts
	}
	if len(Tokenize(query)) == 0 {
		return []Metadata{}
	}
	ix, err := s.indexFor(posts, gen)
	if err != nil {
		metrics.SearchFallbacks.Inc()
		return SubstringSearch(posts, query)
	}
	return ix.Search(query)
}

// ListQuery selects one page of the blog listing.
type ListQuery struct {
	Search   string
	Tags     []string
	Page     int
	PageSize int
}

// Filtered reports whether the query narrows the collection.
func (q ListQuery) Filtered() bool {
	if strings.TrimSpace(q.Search) != "" {
		return true
	}
	for _, t := range q.Tags {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// Stats summarises the collection for the listing header.
type Stats struct {
	TotalPosts      int `json:"totalPosts"`
	FeaturedPosts   int `json:"featuredPosts"`
	Authors         int `json:"authors"`
	AverageReadTime int `json:"averageReadTime"`
}

// Listing is everything a blog index page needs.
type Listing struct {
	Page
	Query      string     `json:"query,omitempty"`
	ActiveTags []string   `json:"activeTags,omitempty"`
	Tags       []string   `json:"tags"`
	Featured   []Metadata `json:"featured,omitempty"`
	Stats      Stats      `json:"stats"`
}

// List searches, then applies the tag filter, then paginates. Featured posts
// are included only on the first page of an unfiltered listing.
func (s *Searcher) List(q ListQuery) Listing {
	all := s.collection.All()
	posts := s.Search(q.Search)
	posts = FilterByTags(posts, q.Tags)

	listing := Listing{
		Page:       Paginate(posts, q.Page, q.PageSize),
		Query:      strings.TrimSpace(q.Search),
		ActiveTags: cleanTags(q.Tags),
		Tags:       s.collection.Tags(),
		Stats:      ComputeStats(all),
	}
	if !q.Filtered() && listing.Info.CurrentPage == 1 {
		featured := s.collection.Featured()
		if len(featured) > featuredLimit {
			featured = featured[:featuredLimit]
		}
		listing.Featured = featured
	}
	return listing
}

// ComputeStats counts posts, featured posts and distinct authors and averages
// the read time, rounded to the nearest minute.
func ComputeStats(posts []Metadata) Stats {
	st := Stats{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return st
	}
	authors := make(map[string]bool)
	total := 0
	for _, p := range posts {
		if p.Featured {
			st.FeaturedPosts++
		}
		if p.Author != "" {
			authors[p.Author] = true
		}
		total += p.ReadTime
	}
	st.Authors = len(authors)
	st.AverageReadTime = (total + len(posts)/2) / len(posts)
	return st
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
