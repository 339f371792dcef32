package usecase

import (
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/service/activity"
	slacksvc "github.com/crmdesk/agenda/pkg/service/slack"
)

type UseCases struct {
	client       activity.Service
	viewer       model.Viewer
	now          func() time.Time
	debounce     time.Duration
	pageSize     int
	slack        slacksvc.Service
	slackChannel string
	orchOpts     []OrchestratorOption

	Orchestrator *Orchestrator
	Panel        *PanelUseCase
	History      *HistoryUseCase
	Notify       *NotifyUseCase
}

type Option func(*UseCases)

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func WithDebounceDelay(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.debounce = d
	}
}

func WithPageSize(size int) Option {
	return func(uc *UseCases) {
		uc.pageSize = size
	}
}

func WithSlack(svc slacksvc.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slack = svc
		uc.slackChannel = channelID
	}
}

func WithOrchestratorOptions(opts ...OrchestratorOption) Option {
	return func(uc *UseCases) {
		uc.orchOpts = append(uc.orchOpts, opts...)
	}
}

func New(client activity.Service, viewer model.Viewer, opts ...Option) *UseCases {
	uc := &UseCases{
		client:   client,
		viewer:   viewer,
		now:      time.Now,
		debounce: DefaultDebounce,
		pageSize: model.DefaultHistoryPageSize,
	}

	for _, opt := range opts {
		opt(uc)
	}

	orchOpts := append([]OrchestratorOption{WithOrchestratorClock(uc.now)}, uc.orchOpts...)
	uc.Orchestrator = NewOrchestrator(client, orchOpts...)
	uc.Panel = NewPanelUseCase(uc.Orchestrator, client, viewer,
		WithPanelClock(uc.now),
		WithDebounce(uc.debounce),
	)
	uc.History = NewHistoryUseCase(uc.Orchestrator, viewer,
		WithHistoryClock(uc.now),
		WithHistoryPageSize(uc.pageSize),
	)
	uc.Notify = NewNotifyUseCase(uc.Panel, uc.slack, uc.slackChannel)

	return uc
}

// Now returns the current time of the configured clock
func (uc *UseCases) Now() time.Time {
	return uc.now()
}

// Close cancels all outstanding work
func (uc *UseCases) Close() {
	uc.Panel.Close()
	uc.Orchestrator.Close()
}
