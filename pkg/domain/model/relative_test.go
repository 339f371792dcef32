package model_test

import (
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestDescribe(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		ts    time.Time
		want  model.Relative
		label string
	}{
		{
			name:  "30 seconds ago is now",
			ts:    now.Add(-30 * time.Second),
			want:  model.Relative{State: model.StateNow},
			label: "now",
		},
		{
			name:  "59 seconds ahead is now",
			ts:    now.Add(59 * time.Second),
			want:  model.Relative{State: model.StateNow},
			label: "now",
		},
		{
			name:  "90 seconds ago is one minute past",
			ts:    now.Add(-90 * time.Second),
			want:  model.Relative{State: model.StatePast, Minutes: 1},
			label: "1m ago",
		},
		{
			name:  "exactly one minute ahead",
			ts:    now.Add(time.Minute),
			want:  model.Relative{State: model.StateFuture, Minutes: 1},
			label: "in 1m",
		},
		{
			name:  "hours and minutes ahead",
			ts:    now.Add(2*time.Hour + 14*time.Minute + 40*time.Second),
			want:  model.Relative{State: model.StateFuture, Hours: 2, Minutes: 14},
			label: "in 2h 14m",
		},
		{
			name:  "days ago",
			ts:    now.Add(-(3*24*time.Hour + 5*time.Hour + 10*time.Minute)),
			want:  model.Relative{State: model.StatePast, Days: 3, Hours: 5, Minutes: 10},
			label: "3d 5h ago",
		},
		{
			name:  "whole day ahead",
			ts:    now.Add(24 * time.Hour),
			want:  model.Relative{State: model.StateFuture, Days: 1},
			label: "in 1d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Describe(tt.ts, now)
			gt.Value(t, got).Equal(tt.want)
			gt.Value(t, got.Label()).Equal(tt.label)
		})
	}
}

func TestDescribe_IsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	gt.Bool(t, model.Describe(now.Add(-time.Hour), now).IsOverdue()).True()
	gt.Bool(t, model.Describe(now.Add(time.Hour), now).IsOverdue()).False()
	gt.Bool(t, model.Describe(now, now).IsOverdue()).False()
}
