package usecase_test

import (
	"errors"
	"testing"

	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidHistoryDays", usecase.ErrInvalidHistoryDays},
		{"ErrInvalidTransition", usecase.ErrInvalidTransition},
		{"ErrEmptyView", usecase.ErrEmptyView},
		{"ErrNotifierNotConfigured", usecase.ErrNotifierNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrInvalidHistoryDays, usecase.ErrInvalidTransition)).False()
	gt.Bool(t, errors.Is(usecase.ErrEmptyView, usecase.ErrNotifierNotConfigured)).False()
}
