package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	slacksvc "github.com/crmdesk/agenda/pkg/service/slack"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// NotifyUseCase posts a digest of today's pending reminders to Slack
type NotifyUseCase struct {
	panel     *PanelUseCase
	slack     slacksvc.Service
	channelID string
	now       func() time.Time
}

// NewNotifyUseCase creates a NotifyUseCase. notifier may be nil, in which case
// SendDueDigest fails with ErrNotifierNotConfigured.
func NewNotifyUseCase(panel *PanelUseCase, notifier slacksvc.Service, channelID string) *NotifyUseCase {
	return &NotifyUseCase{
		panel:     panel,
		slack:     notifier,
		channelID: channelID,
		now:       panel.now,
	}
}

// DueReminders loads today's overview and returns pending reminders, oldest first
func (uc *NotifyUseCase) DueReminders(ctx context.Context) ([]*model.Activity, error) {
	view := ViewState{
		Mode:   types.ViewModeOverview,
		Scopes: []types.ScopeName{types.ScopeToday},
		Kinds:  types.ReminderKinds(),
	}

	snap, _, err := uc.panel.Load(ctx, view)
	if err != nil {
		return nil, err
	}

	var due []*model.Activity
	for _, a := range snap.Items {
		if a.Kind.IsReminder() && a.Status == types.ActivityStatusPending {
			due = append(due, a)
		}
	}
	return due, nil
}

// SendDueDigest posts the digest and returns the number of reminders listed.
// Nothing is posted when no reminder is pending.
func (uc *NotifyUseCase) SendDueDigest(ctx context.Context) (int, error) {
	if uc.slack == nil || uc.channelID == "" {
		return 0, goerr.Wrap(ErrNotifierNotConfigured, "cannot send digest")
	}

	due, err := uc.DueReminders(ctx)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		logging.From(ctx).Info("no pending reminders today")
		return 0, nil
	}

	blocks, text := BuildDigestBlocks(due, uc.now())
	ts, err := uc.slack.PostMessage(ctx, uc.channelID, blocks, text)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to post digest", goerr.V("channel_id", uc.channelID))
	}

	logging.From(ctx).Info("digest posted",
		slog.String("channel_id", uc.channelID),
		slog.String("ts", ts),
		slog.Int("count", len(due)),
	)
	return len(due), nil
}

// BuildDigestBlocks renders reminders as Block Kit blocks plus a fallback text
func BuildDigestBlocks(items []*model.Activity, now time.Time) ([]slack.Block, string) {
	title := fmt.Sprintf("Reminders due today (%d)", len(items))
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
	}

	lines := make([]string, 0, len(items))
	for _, a := range items {
		line := fmt.Sprintf("*%s* %s `%s`", a.Kind, digestSubject(a), a.Relative(now).Label())
		if a.Assignee != "" {
			line += " @" + a.Assignee
		}
		lines = append(lines, line)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, line, false, false), nil, nil,
		))
	}

	return blocks, title + "\n" + strings.Join(lines, "\n")
}

func digestSubject(a *model.Activity) string {
	switch {
	case a.Title != "" && a.ClientName != "":
		return a.Title + " (" + a.ClientName + ")"
	case a.Title != "":
		return a.Title
	case a.ClientName != "":
		return a.ClientName
	default:
		return a.ID.String()
	}
}
