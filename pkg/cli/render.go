package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/fatih/color"
)

const displayTimeLayout = "Mon 01/02 15:04"

var (
	headerColor  = color.New(color.FgHiWhite, color.Bold)
	overdueColor = color.New(color.FgRed)
	soonColor    = color.New(color.FgYellow)
	mutedColor   = color.New(color.FgHiBlack)
	errorColor   = color.New(color.FgRed, color.Bold)

	kindColors = map[types.ActivityKind]*color.Color{
		types.ActivityKindCall:    color.New(color.FgCyan),
		types.ActivityKindEmail:   color.New(color.FgMagenta),
		types.ActivityKindMeeting: color.New(color.FgGreen),
	}
)

// renderPanel writes a channel snapshot with labels relative to now. It only
// reads the snapshot, so the ticker can call it between fetches.
func renderPanel(w io.Writer, title string, snap model.ChannelSnapshot, now time.Time, loc *time.Location) {
	header := fmt.Sprintf("%s  %s", title, now.In(loc).Format(displayTimeLayout))
	if snap.Loading {
		header += " (loading)"
	}
	_, _ = headerColor.Fprintln(w, header)

	if snap.Error != "" {
		_, _ = errorColor.Fprintf(w, "  ! %s\n", snap.Error)
	}

	if len(snap.Items) == 0 {
		if snap.HasData() {
			_, _ = mutedColor.Fprintln(w, "  nothing scheduled")
		}
		return
	}

	for _, a := range snap.Items {
		renderActivity(w, a, now, loc)
	}
}

func renderActivity(w io.Writer, a *model.Activity, now time.Time, loc *time.Location) {
	rel := a.Relative(now)
	label := rel.Label()
	switch {
	case rel.IsOverdue() && a.Status.IsOpen():
		label = overdueColor.Sprint(label)
	case rel.State == model.StateNow:
		label = soonColor.Sprint(label)
	}

	kind := a.Kind.String()
	if c, ok := kindColors[a.Kind]; ok {
		kind = c.Sprintf("%-7s", kind)
	}

	fmt.Fprintf(w, "  %s %s  %-12s %-11s %s\n",
		kind,
		a.When.Time().In(loc).Format(displayTimeLayout),
		label,
		a.Status,
		describe(a),
	)
}

func describe(a *model.Activity) string {
	parts := []string{}
	if a.Title != "" {
		parts = append(parts, a.Title)
	}
	if a.ClientName != "" {
		parts = append(parts, "["+a.ClientName+"]")
	}
	if a.Assignee != "" {
		parts = append(parts, mutedColor.Sprint("@"+a.Assignee))
	} else if a.AssignedToUserID != "" {
		parts = append(parts, mutedColor.Sprint("@"+a.AssignedToUserID.String()))
	}
	if len(parts) == 0 {
		return a.ID.String()
	}
	return strings.Join(parts, " ")
}

// renderHistory writes one page of the history panel
func renderHistory(w io.Writer, days int, page model.HistoryPage, snap model.ChannelSnapshot, now time.Time, loc *time.Location) {
	_, _ = headerColor.Fprintf(w, "History, last %d days  page %d/%d  (%d items)\n",
		days, page.Page, page.TotalPages, page.Total)

	if snap.Error != "" {
		_, _ = errorColor.Fprintf(w, "  ! %s\n", snap.Error)
	}
	if page.Total == 0 {
		_, _ = mutedColor.Fprintln(w, "  no activity")
		return
	}
	for _, a := range page.Items {
		renderActivity(w, a, now, loc)
	}
}
