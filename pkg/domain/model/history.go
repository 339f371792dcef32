package model

import (
	"github.com/crmdesk/agenda/pkg/domain/types"
)

// DefaultHistoryPageSize is used when a view does not set a page size
const DefaultHistoryPageSize = 20

// HistoryView holds the client-side controls of the history panel. Empty
// Kinds or Statuses mean no filtering on that field. Page is 1-based.
type HistoryView struct {
	Kinds    []types.ActivityKind
	Statuses []types.ActivityStatus
	Page     int
	PageSize int
}

// HistoryPage is one page of filtered history
type HistoryPage struct {
	Items      []*Activity
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// PaginateHistory filters items, sorts them newest first and cuts the
// requested page. Out-of-range pages clamp to the last page.
func PaginateHistory(items []*Activity, view HistoryView) HistoryPage {
	size := view.PageSize
	if size <= 0 {
		size = DefaultHistoryPageSize
	}

	kinds := make(map[types.ActivityKind]struct{}, len(view.Kinds))
	for _, k := range view.Kinds {
		kinds[k] = struct{}{}
	}
	statuses := make(map[types.ActivityStatus]struct{}, len(view.Statuses))
	for _, s := range view.Statuses {
		statuses[s] = struct{}{}
	}

	filtered := make([]*Activity, 0, len(items))
	for _, a := range items {
		if len(kinds) > 0 {
			if _, ok := kinds[a.Kind]; !ok {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[a.Status]; !ok {
				continue
			}
		}
		filtered = append(filtered, a)
	}
	SortByWhen(filtered, true)

	total := len(filtered)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	page := view.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	return HistoryPage{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}
