package blog

import "sort"

// DefaultRelatedLimit is the number of related posts shown under a post.
const DefaultRelatedLimit = 3

// RelatedTo ranks the other posts by how many tags they share with slug and
// returns the first limit of them. Ties keep collection order. Posts sharing
// no tags still qualify, so the result is only shorter than limit when the
// collection is. It returns nil if slug is not in posts.
func RelatedTo(posts []Metadata, slug string, limit int) []Metadata {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	var ref *Metadata
	for i := range posts {
		if posts[i].Slug == slug {
			ref = &posts[i]
			break
		}
	}
	if ref == nil {
		return nil
	}

	refTags := make(map[string]bool, len(ref.Tags))
	for _, t := range ref.Tags {
		refTags[normalizeTag(t)] = true
	}

	type scored struct {
		post  Metadata
		score int
	}
	candidates := make([]scored, 0, len(posts))
	for _, p := range posts {
		if p.Slug == slug {
			continue
		}
		counted := make(map[string]bool, len(p.Tags))
		score := 0
		for _, t := range p.Tags {
			n := normalizeTag(t)
			if refTags[n] && !counted[n] {
				counted[n] = true
				score++
			}
		}
		candidates = append(candidates, scored{post: p, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	related := make([]Metadata, len(candidates))
	for i, c := range candidates {
		related[i] = c.post
	}
	return related
}
