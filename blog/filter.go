package blog

import "math"

// DefaultPageSize is the number of posts on one listing page.
const DefaultPageSize = 6

// PageInfo describes where a page sits in a paginated listing.
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is one slice of a listing.
type Page struct {
	Posts []Metadata `json:"posts"`
	Info  PageInfo   `json:"pagination"`
}

// FilterByTags keeps the posts that carry every one of tags, compared
// case-insensitively. Blank tags are ignored; with no tags posts is returned
// unchanged.
func FilterByTags(posts []Metadata, tags []string) []Metadata {
	wanted := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := normalizeTag(t); n != "" {
			wanted = append(wanted, n)
		}
	}
	if len(wanted) == 0 {
		return posts
	}

	filtered := []Metadata{}
	for _, p := range posts {
		have := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			have[normalizeTag(t)] = true
		}
		all := true
		for _, w := range wanted {
			if !have[w] {
				all = false
				break
			}
		}
		if all {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Paginate returns the 1-indexed page of posts. Out of range pages are
// clamped to the nearest valid page; an empty listing has a single empty page.
func Paginate(posts []Metadata, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(posts)
	totalPages := int(math.Ceil(float64(total) / float64(size)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := make([]Metadata, end-start)
	copy(items, posts[start:end])

	return Page{
		Posts: items,
		Info: PageInfo{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalPosts:  total,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}
}
