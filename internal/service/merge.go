package service

import (
	"sort"
	"strconv"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// merge concatenates the per-entity candidate lists and stable-sorts
// them descending by score. Stability keeps the reader order
// (users, campaigns, organizations) among equal scores.
func merge(users, campaigns, orgs []domain.SearchResult) []domain.SearchResult {
	all := make([]domain.SearchResult, 0, len(users)+len(campaigns)+len(orgs))
	all = append(all, users...)
	all = append(all, campaigns...)
	all = append(all, orgs...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})
	return all
}

// paginate slices the merged candidate list to [offset, offset+limit).
// total is the full pre-pagination count; cursor is the next offset as
// a string, set only when more candidates remain beyond this page.
func paginate(all []domain.SearchResult, offset, limit int) (page []domain.SearchResult, total int, cursor string) {
	total = len(all)

	if offset >= total {
		return []domain.SearchResult{}, total, ""
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page = all[offset:end]
	if end < total {
		cursor = strconv.Itoa(end)
	}
	return page, total, cursor
}
