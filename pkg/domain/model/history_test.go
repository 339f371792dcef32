package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func historyFixture() []*model.Activity {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var items []*model.Activity
	for i := 0; i < 25; i++ {
		kind := types.ActivityKindCall
		if i%2 == 1 {
			kind = types.ActivityKindEmail
		}
		a := newActivity(fmt.Sprintf("%02d", i), kind, base.Add(time.Duration(i)*time.Hour), "")
		if i%5 == 0 {
			a.Status = types.ActivityStatusDone
		}
		items = append(items, a)
	}
	return items
}

func TestPaginateHistory(t *testing.T) {
	items := historyFixture()

	t.Run("newest first with default size", func(t *testing.T) {
		page := model.PaginateHistory(items, model.HistoryView{Page: 1})
		gt.Value(t, page.Total).Equal(25)
		gt.Value(t, page.TotalPages).Equal(2)
		gt.Array(t, page.Items).Length(model.DefaultHistoryPageSize)
		gt.Value(t, page.Items[0].ID).Equal(types.ActivityID("24"))
	})

	t.Run("last page is partial", func(t *testing.T) {
		page := model.PaginateHistory(items, model.HistoryView{Page: 2, PageSize: 10})
		gt.Array(t, page.Items).Length(10)
		page = model.PaginateHistory(items, model.HistoryView{Page: 3, PageSize: 10})
		gt.Array(t, page.Items).Length(5)
		gt.Value(t, page.Items[4].ID).Equal(types.ActivityID("00"))
	})

	t.Run("page clamps to range", func(t *testing.T) {
		page := model.PaginateHistory(items, model.HistoryView{Page: 99, PageSize: 10})
		gt.Value(t, page.Page).Equal(3)
		page = model.PaginateHistory(items, model.HistoryView{Page: 0, PageSize: 10})
		gt.Value(t, page.Page).Equal(1)
	})

	t.Run("kind filter", func(t *testing.T) {
		page := model.PaginateHistory(items, model.HistoryView{Kinds: []types.ActivityKind{types.ActivityKindEmail}, PageSize: 50})
		gt.Value(t, page.Total).Equal(12)
		for _, a := range page.Items {
			gt.Value(t, a.Kind).Equal(types.ActivityKindEmail)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		page := model.PaginateHistory(items, model.HistoryView{Statuses: []types.ActivityStatus{types.ActivityStatusDone}})
		gt.Value(t, page.Total).Equal(5)
	})

	t.Run("empty input", func(t *testing.T) {
		page := model.PaginateHistory(nil, model.HistoryView{})
		gt.Value(t, page.Total).Equal(0)
		gt.Value(t, page.TotalPages).Equal(1)
		gt.Array(t, page.Items).Length(0)
	})

	t.Run("input order is untouched", func(t *testing.T) {
		_ = model.PaginateHistory(items, model.HistoryView{})
		gt.Value(t, items[0].ID).Equal(types.ActivityID("00"))
	})
}
