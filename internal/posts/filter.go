package posts

import (
	"slices"
	"strings"
	"time"
)

const (
	DefaultPerPage = 6
	MaxPerPage     = 100
	recentWindow   = 30 * 24 * time.Hour
)

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// filterPosts keeps the posts matching every criterion of params: the query
// must appear in the title or content and every selected tag must be present.
// The recent tab keeps posts created in the last 30 days; the popular tab
// keeps user-created posts.
func filterPosts(all []*Post, params ListParams, now time.Time) []*Post {
	q := strings.ToLower(params.Query)
	var out []*Post
	for _, p := range all {
		if q != "" && !containsFold(p.Title, q) && !containsFold(p.ContentMD, q) {
			continue
		}
		if !hasAllTags(p, params.Tags) {
			continue
		}
		if params.Tab == TabRecent && !p.CreatedAt.After(now.Add(-recentWindow)) {
			continue
		}
		if params.Tab == TabPopular && !strings.HasPrefix(p.ID, "post") {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAllTags(p *Post, tags []string) bool {
	for _, t := range tags {
		if !slices.Contains(p.Tags, t) {
			return false
		}
	}
	return true
}

// adminMatch is the dashboard search: title, content, any tag, or the author.
func adminMatch(p *Post, q string) bool {
	q = strings.ToLower(q)
	if containsFold(p.Title, q) || containsFold(p.ContentMD, q) {
		return true
	}
	if slices.ContainsFunc(p.Tags, func(t string) bool { return containsFold(t, q) }) {
		return true
	}
	return (p.User.DisplayName != "" && containsFold(p.User.DisplayName, q)) || containsFold(p.User.Email, q)
}

// uniqueTags returns every tag once, in first-seen order.
func uniqueTags(all []*Post) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range all {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func paginate(filtered []*Post, page, perPage int) *ListResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	total := len(filtered)
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	out := make([]*Post, end-start)
	copy(out, filtered[start:end])
	return &ListResult{
		Posts:      out,
		Total:      int64(total),
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
